package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/venturescout/outreach-cli/internal/scorer"
	"github.com/venturescout/outreach-cli/internal/tracker"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run sync, score, enrich and followup as one pass",
	Long: `Runs the full pipeline in order: sync the configured batches, rescore
every company, enrich the top candidates, and flag stale outreach. A
failing stage is logged and the pipeline continues with the next one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if n, err := newSyncer().Sync(ctx, st, cfg.Directory.Batches); err != nil {
			zap.L().Error("sync stage failed", zap.Error(err))
			fmt.Println("sync: failed, continuing")
		} else {
			fmt.Printf("sync: %d companies\n", n)
		}

		if n, err := scorer.New(cfg.Scorer).ScoreAll(ctx, st); err != nil {
			zap.L().Error("score stage failed", zap.Error(err))
			fmt.Println("score: failed, continuing")
		} else {
			fmt.Printf("score: %d companies\n", n)
		}

		if summary, err := newCoordinator(st).Run(ctx); err != nil {
			zap.L().Error("enrich stage failed", zap.Error(err))
			fmt.Println("enrich: failed, continuing")
		} else {
			fmt.Printf("enrich: %d companies, %d new contacts\n",
				summary.EntitiesEnriched, summary.NewContacts)
		}

		if summary, err := tracker.New(cfg.Followup.AfterDays).Run(ctx, st); err != nil {
			zap.L().Error("followup stage failed", zap.Error(err))
			fmt.Println("followup: failed")
		} else {
			fmt.Printf("followup: %d newly flagged\n", summary.NewlyFlagged)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(pipelineCmd)
}
