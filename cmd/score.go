package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/venturescout/outreach-cli/internal/scorer"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score stored companies against the relevance rubric",
	Long: `Recomputes the relevance score for every stored company. The rubric
weighs AI/ML focus, hiring status, location fit, team size, and
infrastructure/devtools signals; weights and keyword lists come from
config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := scorer.New(cfg.Scorer).ScoreAll(cmd.Context(), st)
		if err != nil {
			return err
		}
		fmt.Printf("Scored %d companies\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
