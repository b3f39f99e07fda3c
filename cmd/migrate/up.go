package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(upCmd)
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Run:   runUp,
}

func runUp(cmd *cobra.Command, args []string) {
	r, err := newRunner()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}

	res, err := r.Run(cmd.Context())
	if err != nil {
		if res.Failed != "" {
			log.Fatal().Err(err).Msgf("migration '%s' failed", res.Failed)
		}
		log.Fatal().Err(err).Msg("migration run failed")
	}

	if len(res.Applied) == 0 {
		log.Info().Msg("no pending migrations")
		return
	}

	log.Info().Msgf("applied %d migration(s)", len(res.Applied))
}
