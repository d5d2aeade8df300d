package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/veridia/invoice-summary/internal/config"
	"github.com/veridia/invoice-summary/internal/engine"
	"github.com/veridia/invoice-summary/internal/filter"
	"github.com/veridia/invoice-summary/internal/logger"
	"github.com/veridia/invoice-summary/internal/model"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
	documentsDir string

	// Filter flags shared by summary and products
	supplierName  string
	invoiceNumber string
	startDate     string
	endDate       string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "invoice-summary",
	Short: "Summarize and reconcile UBL e-invoices",
	Long: `Invoice Summary reads locally stored UBL invoices and credit notes
and produces reconciled financial summaries.

The product breakdown allocates document-level and disguised discounts
proportionally across product lines and guarantees that per-line values
sum exactly to each document's payable total.

Examples:
  # Per-document totals for one supplier
  invoice-summary summary --supplier-name "ACME*"

  # Product-level breakdown for a date range
  invoice-summary products --start-date 2025-01-01 --end-date 2025-03-31

  # JSON output
  invoice-summary products -f json

  # HTTP API
  invoice-summary serve --address :8080`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		if verbose {
			cfg.LogLevel = "debug"
		}
		if documentsDir != "" {
			cfg.DocumentsDir = documentsDir
		}
		return logger.Setup(cfg.LogLevel, cfg.LogFormat)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "table", "Output format (table, json, csv)")
	rootCmd.PersistentFlags().StringVarP(&documentsDir, "documents-dir", "d", "", "Directory with UBL XML files (env: INVSUM_DOCUMENTS_DIR)")
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&supplierName, "supplier-name", "s", "", "Supplier name wildcard pattern, e.g. \"ACME*\"")
	cmd.Flags().StringVarP(&invoiceNumber, "invoice-number", "n", "", "Invoice number wildcard pattern")
	cmd.Flags().StringVar(&startDate, "start-date", "", "Inclusive range start (YYYY-MM-DD), requires --end-date")
	cmd.Flags().StringVar(&endDate, "end-date", "", "Inclusive range end (YYYY-MM-DD), requires --start-date")
}

// buildCriteria converts the filter flags into selector criteria.
func buildCriteria() (filter.Criteria, error) {
	criteria := filter.Criteria{
		Supplier: supplierName,
		Number:   invoiceNumber,
	}

	if startDate != "" {
		t, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return filter.Criteria{}, model.NewFilterUsageError(fmt.Sprintf("invalid --start-date %q, expected YYYY-MM-DD", startDate))
		}
		criteria.Start = &t
	}
	if endDate != "" {
		t, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return filter.Criteria{}, model.NewFilterUsageError(fmt.Sprintf("invalid --end-date %q, expected YYYY-MM-DD", endDate))
		}
		criteria.End = &t
	}

	if err := criteria.Validate(); err != nil {
		return filter.Criteria{}, err
	}
	return criteria, nil
}

func engineConfig() engine.Config {
	return engine.Config{
		Precision:        cfg.Precision,
		TolerancePerLine: cfg.Tolerance(),
	}
}
