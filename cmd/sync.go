package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var syncBatches string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync company listings from the startup directory",
	Long: `Fetches company listings for the configured batches from both the
paged directory API and the static batch mirrors, merges them by slug,
and upserts them into the store. Existing relevance scores and contacts
are preserved across re-syncs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		batches := cfg.Directory.Batches
		if syncBatches != "" {
			batches = strings.Split(syncBatches, ",")
			for i := range batches {
				batches[i] = strings.TrimSpace(batches[i])
			}
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := newSyncer().Sync(ctx, st, batches)
		if err != nil {
			return err
		}
		fmt.Printf("Synced %d companies across %d batches\n", n, len(batches))
		return nil
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncBatches, "batches", "", "comma-separated batch labels (e.g., W25,S24); overrides config")
	rootCmd.AddCommand(syncCmd)
}
