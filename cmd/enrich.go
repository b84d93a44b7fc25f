package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich top-scored companies with contact information",
	Long: `Runs the multi-source enrichment pass: for each top-scored company
that does not yet have enough contacts, scrapes the directory profile,
searches the code host, generates speculative email patterns, and emits
professional-network links. Contacts are deduplicated per company; the
code-host source is capped by a per-run call budget.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		summary, err := newCoordinator(st).Run(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Considered %d companies, enriched %d with %d new contacts (code-host calls: %d)\n",
			summary.EntitiesConsidered, summary.EntitiesEnriched, summary.NewContacts, summary.CodeHostCalls)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(enrichCmd)
}
