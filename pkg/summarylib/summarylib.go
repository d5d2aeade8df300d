// Package summarylib provides a public API for reconciling UBL e-invoices.
//
// It exposes the core types for loading invoice and credit-note documents,
// selecting them by wildcard and date criteria, and producing a per-product
// breakdown whose line values sum exactly to each document's payable total.
//
// Example usage:
//
//	p := summarylib.NewProcessor(summarylib.DefaultOptions())
//	results, err := p.SummarizeDir(ctx, "dlds", summarylib.Criteria{Supplier: "ACME*"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, row := range summarylib.Rows(results) {
//	    fmt.Println(row.Product, row.FinalValue)
//	}
package summarylib

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/veridia/invoice-summary/internal/engine"
	"github.com/veridia/invoice-summary/internal/filter"
	"github.com/veridia/invoice-summary/internal/model"
	"github.com/veridia/invoice-summary/internal/store"
	"github.com/veridia/invoice-summary/internal/summary"
)

// Re-export core types for public API
type (
	Document       = model.Document
	Line           = model.Line
	ResultRow      = model.ResultRow
	DocumentResult = model.DocumentResult
	SummaryRow     = model.SummaryRow
	DocumentType   = model.DocumentType
	Criteria       = filter.Criteria
)

// Re-export document type constants
const (
	DocumentTypeInvoice    = model.DocumentTypeInvoice
	DocumentTypeCreditNote = model.DocumentTypeCreditNote
)

// Re-export error types
type (
	MalformedLineError         = model.MalformedLineError
	UnallocatableDiscountError = model.UnallocatableDiscountError
	FilterUsageError           = model.FilterUsageError
	LoadError                  = model.LoadError
)

// Options configures a Processor.
type Options struct {
	// Precision is the currency minor-unit precision in decimal places.
	Precision int32

	// TolerancePerLine is the acceptable reconciliation residual per line.
	TolerancePerLine decimal.Decimal

	// Parallelism bounds concurrent document processing.
	Parallelism int
}

// DefaultOptions returns the standard two-decimal configuration.
func DefaultOptions() Options {
	return Options{
		Precision:        2,
		TolerancePerLine: decimal.New(1, -2),
		Parallelism:      4,
	}
}

// Processor runs the reconciliation pipeline over document collections.
type Processor struct {
	builder *summary.Builder
}

// NewProcessor creates a processor with the given options.
func NewProcessor(opts Options) *Processor {
	cfg := engine.Config{
		Precision:        opts.Precision,
		TolerancePerLine: opts.TolerancePerLine,
	}
	return &Processor{
		builder: summary.NewBuilder(cfg, summary.WithParallelism(opts.Parallelism)),
	}
}

// Summarize selects documents with the criteria and runs the pipeline
// over each one, returning per-document results in input order.
func (p *Processor) Summarize(ctx context.Context, docs []Document, criteria Criteria) ([]DocumentResult, error) {
	return p.builder.Run(ctx, docs, criteria)
}

// SummarizeDir loads every UBL XML file from dir and summarizes the
// matching documents. Unparseable files are recorded as per-document
// failures in the result set.
func (p *Processor) SummarizeDir(ctx context.Context, dir string, criteria Criteria) ([]DocumentResult, error) {
	docs, failures, err := store.New(dir).LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	results, err := p.builder.Run(ctx, docs, criteria)
	if err != nil {
		return nil, err
	}
	return append(results, failures...), nil
}

// Rows flattens results into a single ordered row set.
func Rows(results []DocumentResult) []ResultRow {
	return summary.Rows(results)
}

// Failures returns the results of documents that were skipped in full.
func Failures(results []DocumentResult) []DocumentResult {
	return summary.Failures(results)
}

// BuildSummaryRows produces the document-level listing sorted by issue
// date then document number.
func BuildSummaryRows(docs []Document) []SummaryRow {
	return summary.BuildSummaryRows(docs)
}
