package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/veridia/invoice-summary/internal/model"
)

func outputSummaryRows(rows []model.SummaryRow) error {
	switch outputFormat {
	case "json":
		return outputJSON(rows)
	case "csv":
		return summaryCSV(rows)
	case "table":
		return summaryTable(rows)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

func outputResultRows(rows []model.ResultRow) error {
	switch outputFormat {
	case "json":
		return outputJSON(rows)
	case "csv":
		return resultCSV(rows)
	case "table":
		return resultTable(rows)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

func outputJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func summaryTable(rows []model.SummaryRow) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NUMBER\tSUPPLIER\tDATE\tDUE DATE\tPAYABLE\tCURRENCY")
	fmt.Fprintln(tw, "------\t--------\t----\t--------\t-------\t--------")

	for _, r := range rows {
		due := "N/A"
		if r.DueDate != nil {
			due = r.DueDate.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.DocumentNumber,
			r.Supplier,
			r.IssueDate.Format("2006-01-02"),
			due,
			r.PayableAmount.StringFixed(2),
			r.Currency,
		)
	}

	return tw.Flush()
}

func summaryCSV(rows []model.SummaryRow) error {
	fmt.Println("number,supplier,date,due_date,payable,currency,credit_note")
	for _, r := range rows {
		due := ""
		if r.DueDate != nil {
			due = r.DueDate.Format("2006-01-02")
		}
		fmt.Printf("%s,%s,%s,%s,%s,%s,%t\n",
			escapeCSV(r.DocumentNumber),
			escapeCSV(r.Supplier),
			r.IssueDate.Format("2006-01-02"),
			due,
			r.PayableAmount.StringFixed(2),
			r.Currency,
			r.IsCreditNote,
		)
	}
	return nil
}

func resultTable(rows []model.ResultRow) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SUPPLIER\tNUMBER\tDATE\tPAYABLE\tPRODUCT\tCODE\tQTY\tU.M.\tPRICE\tVALUE\tVAT %\tVAT\tDISC %\tDISC\tFINAL")
	fmt.Fprintln(tw, "--------\t------\t----\t-------\t-------\t----\t---\t----\t-----\t-----\t-----\t---\t------\t----\t-----")

	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Supplier,
			r.DocumentNumber,
			r.DocumentDate.Format("2006-01-02"),
			r.TotalPayable.StringFixed(2),
			r.Product,
			orDash(r.ProductCode),
			r.Quantity.String(),
			orDash(r.UnitCode),
			r.UnitPrice.StringFixed(2),
			r.LineValue.StringFixed(2),
			r.VATRate.StringFixed(2),
			r.VATValue.StringFixed(2),
			rateOrDash(r.DiscountRate),
			r.DiscountValue.StringFixed(2),
			r.FinalValue.StringFixed(2),
		)
	}

	return tw.Flush()
}

func resultCSV(rows []model.ResultRow) error {
	fmt.Println("supplier,number,date,total_invoice,total_payable,product,product_code,quantity,unit_code,unit_price,line_value,vat_rate,vat_value,discount_rate,discount_value,final_value")
	for _, r := range rows {
		rate := ""
		if r.DiscountRate != nil {
			rate = r.DiscountRate.StringFixed(2)
		}
		fmt.Printf("%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s\n",
			escapeCSV(r.Supplier),
			escapeCSV(r.DocumentNumber),
			r.DocumentDate.Format("2006-01-02"),
			r.TotalInvoice.StringFixed(2),
			r.TotalPayable.StringFixed(2),
			escapeCSV(r.Product),
			escapeCSV(r.ProductCode),
			r.Quantity.String(),
			r.UnitCode,
			r.UnitPrice.StringFixed(2),
			r.LineValue.StringFixed(2),
			r.VATRate.StringFixed(2),
			r.VATValue.StringFixed(2),
			rate,
			r.DiscountValue.StringFixed(2),
			r.FinalValue.StringFixed(2),
		)
	}
	return nil
}

func reportWarnings(results []model.DocumentResult) {
	for _, r := range results {
		if r.Warning {
			fmt.Fprintf(os.Stderr, "Warning: document %s reconciliation residual %s exceeds tolerance\n",
				r.DocumentNumber, r.Residual.String())
		}
	}
}

func reportFailures(failures []model.DocumentResult) {
	for _, f := range failures {
		fmt.Fprintf(os.Stderr, "Skipped %s: %s\n", f.DocumentNumber, f.ErrorMessage)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func rateOrDash(rate *decimal.Decimal) string {
	if rate == nil {
		return "-"
	}
	return rate.StringFixed(2)
}

func escapeCSV(s string) string {
	if strings.Contains(s, ",") || strings.Contains(s, "\"") || strings.Contains(s, "\n") {
		return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
	}
	return s
}
