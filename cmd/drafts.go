package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/venturescout/outreach-cli/internal/drafts"
	"github.com/venturescout/outreach-cli/internal/model"
)

var (
	draftsCompanyID int64
	draftsSave      int
)

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "Generate outreach email drafts for a company",
	Long: `Renders three outreach email variants for a company, personalized with
the configured sender profile and the company's own description. Use
--save to store one variant as a drafted outreach record.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if draftsCompanyID == 0 {
			return eris.New("--company is required")
		}

		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		company, err := st.GetCompany(ctx, draftsCompanyID)
		if err != nil {
			return err
		}

		out := drafts.New(cfg.Sender).Generate(*company)
		for i, d := range out {
			fmt.Printf("--- Variant %d: %s ---\nSubject: %s\n\n%s\n\n", i+1, d.Variant, d.Subject, d.Body)
		}

		if draftsSave > 0 {
			if draftsSave > len(out) {
				return eris.Errorf("no variant %d (have %d)", draftsSave, len(out))
			}
			d := out[draftsSave-1]
			id, err := st.CreateOutreach(ctx, model.Outreach{
				CompanyID:  company.ID,
				Status:     model.OutreachDrafted,
				EmailDraft: fmt.Sprintf("Subject: %s\n\n%s", d.Subject, d.Body),
			})
			if err != nil {
				return err
			}
			fmt.Printf("Saved variant %d as outreach #%d\n", draftsSave, id)
		}
		return nil
	},
}

func init() {
	draftsCmd.Flags().Int64Var(&draftsCompanyID, "company", 0, "company id to draft for")
	draftsCmd.Flags().IntVar(&draftsSave, "save", 0, "save the given variant (1-3) as a drafted outreach record")
	rootCmd.AddCommand(draftsCmd)
}
