package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veridia/invoice-summary/internal/store"
	"github.com/veridia/invoice-summary/internal/summary"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "List per-document totals",
	Long: `List one row per matching invoice or credit note with its main
financial figures. Credit notes appear with negative payable amounts.

Examples:
  invoice-summary summary --supplier-name "ACME*"
  invoice-summary summary --start-date 2025-01-01 --end-date 2025-01-31
  invoice-summary summary -n "FIMCGB*" -f csv`,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	addFilterFlags(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	criteria, err := buildCriteria()
	if err != nil {
		return err
	}

	docs, failures, err := store.New(cfg.DocumentsDir).LoadAll(cmd.Context())
	if err != nil {
		return err
	}

	selected, err := criteria.Apply(docs)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		fmt.Println("No matching invoices or credit notes found.")
		return nil
	}

	rows := summary.BuildSummaryRows(selected)
	if err := outputSummaryRows(rows); err != nil {
		return err
	}
	reportFailures(failures)
	return nil
}
