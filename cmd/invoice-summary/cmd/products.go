package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veridia/invoice-summary/internal/store"
	"github.com/veridia/invoice-summary/internal/summary"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Product-level breakdown with discount allocation",
	Long: `Produce one row per product line of every matching document, with
discounts allocated proportionally and per-line values reconciled so
they sum exactly to the document's payable total.

Disguised discount lines (negative-quantity pseudo-products) are removed
from the output and redistributed over the genuine product lines.

Examples:
  invoice-summary products --supplier-name "ACME*"
  invoice-summary products --start-date 2025-01-01 --end-date 2025-03-31
  invoice-summary products -f json`,
	RunE: runProducts,
}

func init() {
	rootCmd.AddCommand(productsCmd)
	addFilterFlags(productsCmd)
}

func runProducts(cmd *cobra.Command, args []string) error {
	criteria, err := buildCriteria()
	if err != nil {
		return err
	}

	docs, loadFailures, err := store.New(cfg.DocumentsDir).LoadAll(cmd.Context())
	if err != nil {
		return err
	}

	builder := summary.NewBuilder(engineConfig(), summary.WithParallelism(cfg.Parallelism))
	results, err := builder.Run(cmd.Context(), docs, criteria)
	if err != nil {
		return err
	}
	results = append(results, loadFailures...)

	rows := summary.Rows(results)
	if len(rows) == 0 && len(loadFailures) == 0 {
		fmt.Println("No matching invoices or credit notes found.")
		return nil
	}

	if err := outputResultRows(rows); err != nil {
		return err
	}
	reportWarnings(results)
	reportFailures(summary.Failures(results))
	return nil
}
