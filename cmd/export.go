package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"

	"github.com/venturescout/outreach-cli/internal/model"
	"github.com/venturescout/outreach-cli/internal/store"
)

var (
	exportFormat string
	exportOutput string
	exportLimit  int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export enriched contacts to CSV or XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		contacts, err := st.ListContacts(ctx, store.ContactFilter{Limit: exportLimit})
		if err != nil {
			return err
		}

		header := []string{"company", "name", "role", "email", "network_url", "source", "created_at"}
		rows := make([][]string, 0, len(contacts))
		for _, c := range contacts {
			rows = append(rows, []string{
				c.CompanyName, c.Name, c.Role, c.Email, c.NetworkURL,
				string(c.Source), c.CreatedAt.Format("2006-01-02"),
			})
		}

		switch strings.ToLower(exportFormat) {
		case "csv":
			err = writeCSV(exportOutput, header, rows)
		case "xlsx":
			err = writeXLSX(exportOutput, header, rows)
		default:
			return eris.Errorf("unknown format %q (want csv or xlsx)", exportFormat)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Exported %d contacts to %s\n", len(rows), exportOutput)
		return nil
	},
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "export: flush csv")
}

func writeXLSX(path string, header []string, rows [][]string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Contacts")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	hr := sheet.AddRow()
	for _, h := range header {
		hr.AddCell().Value = h
	}
	for _, row := range rows {
		r := sheet.AddRow()
		for _, v := range row {
			r.AddCell().Value = v
		}
	}
	return eris.Wrapf(f.Save(path), "export: save %s", path)
}

// contactSummary is used by the stats subcommand output.
func contactSummary(st *model.Stats) string {
	parts := make([]string, 0, len(st.ContactsBySource))
	for source, n := range st.ContactsBySource {
		parts = append(parts, source+"="+strconv.Itoa(n))
	}
	return strings.Join(parts, " ")
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or xlsx")
	exportCmd.Flags().StringVar(&exportOutput, "output", "contacts.csv", "output file path")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 1000, "maximum contacts to export")
	rootCmd.AddCommand(exportCmd)
}
