package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/venturescout/outreach-cli/internal/tracker"
)

var followupCmd = &cobra.Command{
	Use:   "followup",
	Short: "Flag sent outreach that needs a follow-up",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		summary, err := tracker.New(cfg.Followup.AfterDays).Run(cmd.Context(), st)
		if err != nil {
			return err
		}
		fmt.Printf("Flagged %d new follow-ups (%d total outstanding)\n",
			summary.NewlyFlagged, summary.TotalFollowup)
		for status, n := range summary.ByStatus {
			fmt.Printf("  %s: %d\n", status, n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(followupCmd)
}
