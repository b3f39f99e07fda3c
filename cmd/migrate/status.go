package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report applied vs pending migrations without mutating anything",
	Run:   runStatus,
}

func runStatus(cmd *cobra.Command, args []string) {
	r, err := newRunner()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}

	st, err := r.Status()
	if err != nil {
		log.Fatal().Err(err).Msg("status failed")
	}

	for _, le := range st.Applied {
		fmt.Printf("applied  %s  %s\n", le.Identifier,
			le.AppliedAt.UTC().Format(time.RFC3339))
	}

	for _, u := range st.Pending {
		fmt.Printf("pending  %s\n", u.Identifier)
	}

	if len(st.Applied) == 0 && len(st.Pending) == 0 {
		fmt.Println("no migrations found")
	}
}
