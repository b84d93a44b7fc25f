package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show pipeline counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.Stats(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Companies:        %d (%d hiring, %d scored)\n",
			stats.TotalCompanies, stats.HiringCompanies, stats.ScoredCompanies)
		fmt.Printf("Contacts:         %d across %d companies\n",
			stats.TotalContacts, stats.CompaniesEnriched)
		if len(stats.ContactsBySource) > 0 {
			fmt.Printf("  by source:      %s\n", contactSummary(stats))
		}
		fmt.Printf("Needs follow-up:  %d\n", stats.NeedsFollowup)
		for status, n := range stats.OutreachByStatus {
			fmt.Printf("  outreach %s: %d\n", status, n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
