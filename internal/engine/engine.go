// Package engine implements the discount-allocation and reconciliation
// pipeline for a single document: line computation, discount-proxy
// classification, proportional allocation and residual correction.
package engine

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/veridia/invoice-summary/internal/model"
	"github.com/veridia/invoice-summary/internal/money"
)

// Config carries the currency parameters for one pipeline run. It is
// immutable and passed explicitly; the engine keeps no ambient state.
type Config struct {
	// Precision is the currency's minor-unit precision in decimal places.
	Precision int32

	// TolerancePerLine is the acceptable residual per line before a
	// reconciliation is flagged as unreliable.
	TolerancePerLine decimal.Decimal
}

// DefaultConfig returns the standard two-decimal configuration with a
// tolerance of one minor unit per line.
func DefaultConfig() Config {
	return Config{
		Precision:        2,
		TolerancePerLine: decimal.New(1, -2),
	}
}

// Tolerance returns the residual tolerance for a document with the given
// number of lines.
func (c Config) Tolerance(lines int) decimal.Decimal {
	return c.TolerancePerLine.Mul(decimal.NewFromInt(int64(lines)))
}

// lineComputation is the working record for one line of one document. It
// is private to a single pass through the pipeline and discarded after
// the document's rows are emitted.
type lineComputation struct {
	line            model.Line
	unitPrice       decimal.Decimal
	vatValue        decimal.Decimal
	netAfterLine    decimal.Decimal
	isDiscountProxy bool
	allocated       decimal.Decimal
	finalNet        decimal.Decimal
}

// Engine runs the per-document pipeline.
type Engine struct {
	cfg Config
	log zerolog.Logger
}

// New creates an engine with the given configuration.
func New(cfg Config) *Engine {
	return &Engine{
		cfg: cfg,
		log: log.With().Str("component", "engine").Logger(),
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Process runs one document through the full pipeline and returns its
// result. A failure leaves Rows empty and records the error; it never
// aborts the batch.
func (e *Engine) Process(doc model.Document) model.DocumentResult {
	result := model.DocumentResult{
		DocumentNumber: doc.Number,
		Supplier:       doc.Supplier,
	}

	computations := make([]*lineComputation, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		lc, err := e.computeLine(doc.Number, line)
		if err != nil {
			e.log.Debug().Str("document", doc.Number).Err(err).Msg("skipping document")
			result.Err = err
			result.ErrorMessage = err.Error()
			return result
		}
		computations = append(computations, lc)
	}

	products, proxies := classify(computations)
	if len(products) == 0 {
		// All-proxy or empty documents have nothing to allocate onto.
		if len(proxies) > 0 {
			err := model.NewUnallocatableDiscountError(doc.Number, totalProxyDiscount(proxies).String())
			result.Err = err
			result.ErrorMessage = err.Error()
		}
		return result
	}

	if err := e.allocate(doc, products, proxies); err != nil {
		e.log.Debug().Str("document", doc.Number).Err(err).Msg("skipping document")
		result.Err = err
		result.ErrorMessage = err.Error()
		return result
	}

	residual, warn := e.reconcile(doc, products)
	result.Residual = residual
	result.Warning = warn
	if warn {
		e.log.Warn().
			Str("document", doc.Number).
			Str("residual", residual.String()).
			Msg("reconciliation residual exceeds tolerance")
	}

	result.Rows = e.buildRows(doc, products)
	return result
}

func (e *Engine) buildRows(doc model.Document, products []*lineComputation) []model.ResultRow {
	prec := e.cfg.Precision
	rows := make([]model.ResultRow, 0, len(products))
	for _, lc := range products {
		discountValue := lc.line.DiscountMagnitude().Add(lc.allocated.Abs())
		var discountRate *decimal.Decimal
		if !discountValue.IsZero() && !lc.line.RawAmount.IsZero() {
			rate := money.RatePercent(discountValue, lc.line.RawAmount)
			discountRate = &rate
		}

		rows = append(rows, model.ResultRow{
			Supplier:       doc.Supplier,
			DocumentNumber: doc.Number,
			DocumentDate:   doc.IssueDate,
			Currency:       doc.Currency,
			TotalInvoice:   money.Round(doc.TotalInvoice, prec),
			TotalPayable:   money.Round(doc.TotalPayable, prec),
			Product:        lc.line.ItemName,
			ProductCode:    lc.line.ItemCode,
			Quantity:       lc.line.Quantity,
			UnitCode:       lc.line.UnitCode,
			UnitPrice:      lc.unitPrice,
			LineValue:      money.Round(lc.line.RawAmount, prec),
			VATRate:        lc.line.VATRate,
			VATValue:       lc.vatValue,
			DiscountRate:   discountRate,
			DiscountValue:  money.Round(discountValue, prec),
			FinalValue:     lc.finalNet,
		})
	}
	return rows
}

func totalProxyDiscount(proxies []*lineComputation) decimal.Decimal {
	total := money.Zero
	for _, p := range proxies {
		total = total.Add(p.netAfterLine)
	}
	return total
}
