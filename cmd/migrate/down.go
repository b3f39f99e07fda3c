package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(downCmd)
}

var downCmd = &cobra.Command{
	Use:   "down <identifier>",
	Short: "Roll back a single applied migration using its reverse script",
	Args:  cobra.ExactArgs(1),
	Run:   runDown,
}

func runDown(cmd *cobra.Command, args []string) {
	r, err := newRunner()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}

	if err := r.Rollback(args[0]); err != nil {
		log.Fatal().Err(err).Msgf("rollback of '%s' failed", args[0])
	}
}
