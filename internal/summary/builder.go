// Package summary orchestrates the reconciliation pipeline over a
// document collection.
package summary

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/veridia/invoice-summary/internal/engine"
	"github.com/veridia/invoice-summary/internal/filter"
	"github.com/veridia/invoice-summary/internal/model"
)

// Builder drives the per-document pipeline over every selected document
// and collects ordered results. Documents are independent, so they are
// processed concurrently; results are re-assembled in input order before
// being handed to any consumer.
type Builder struct {
	engine   *engine.Engine
	parallel int
	log      zerolog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithParallelism bounds the number of documents processed concurrently.
func WithParallelism(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.parallel = n
		}
	}
}

// NewBuilder creates a builder running the pipeline with cfg.
func NewBuilder(cfg engine.Config, opts ...Option) *Builder {
	b := &Builder{
		engine:   engine.New(cfg),
		parallel: 4,
		log:      log.With().Str("component", "summary").Logger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run selects documents with the given criteria and processes each one.
// A failure on one document is recorded in its result and does not abort
// the batch. The only batch-level error is invalid criteria.
func (b *Builder) Run(ctx context.Context, docs []model.Document, criteria filter.Criteria) ([]model.DocumentResult, error) {
	selected, err := criteria.Apply(docs)
	if err != nil {
		return nil, err
	}
	b.log.Debug().
		Int("documents", len(docs)).
		Int("selected", len(selected)).
		Msg("processing documents")

	results := make([]model.DocumentResult, len(selected))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.parallel)
	for i, doc := range selected {
		i, doc := i, doc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = b.engine.Process(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// Rows flattens the successful results into a single ordered row set,
// document by document, each document's original line order preserved.
func Rows(results []model.DocumentResult) []model.ResultRow {
	var rows []model.ResultRow
	for _, r := range results {
		rows = append(rows, r.Rows...)
	}
	return rows
}

// Failures returns the results of documents that were skipped in full.
func Failures(results []model.DocumentResult) []model.DocumentResult {
	var failed []model.DocumentResult
	for _, r := range results {
		if r.Failed() {
			failed = append(failed, r)
		}
	}
	return failed
}

// BuildSummaryRows produces the document-level summary listing, sorted
// by issue date then document number.
func BuildSummaryRows(docs []model.Document) []model.SummaryRow {
	rows := make([]model.SummaryRow, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, model.SummaryRow{
			DocumentNumber: doc.Number,
			Supplier:       doc.Supplier,
			IssueDate:      doc.IssueDate,
			DueDate:        doc.DueDate,
			PayableAmount:  doc.TotalPayable,
			Currency:       doc.Currency,
			IsCreditNote:   doc.Type == model.DocumentTypeCreditNote,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].IssueDate.Equal(rows[j].IssueDate) {
			return rows[i].IssueDate.Before(rows[j].IssueDate)
		}
		return rows[i].DocumentNumber < rows[j].DocumentNumber
	})
	return rows
}
