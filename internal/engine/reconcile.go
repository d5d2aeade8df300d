package engine

import (
	"github.com/shopspring/decimal"

	"github.com/veridia/invoice-summary/internal/model"
	"github.com/veridia/invoice-summary/internal/money"
)

// reconcile rounds each product entry's final net to the currency
// precision and forces the rounded sum to equal the document's payable
// amount. The whole residual lands on the last product entry in document
// order, which keeps the correction deterministic and the sum law exact.
//
// A residual within one minor unit per line is expected rounding noise.
// Anything larger is reported as a warning; the rows are still emitted so
// downstream consumers can decide whether to trust them.
func (e *Engine) reconcile(doc model.Document, products []*lineComputation) (decimal.Decimal, bool) {
	prec := e.cfg.Precision

	sum := money.Zero
	for _, p := range products {
		p.finalNet = money.Round(p.finalNet, prec)
		sum = sum.Add(p.finalNet)
	}

	target := money.Round(doc.TotalPayable, prec)
	delta := target.Sub(sum)
	if delta.IsZero() {
		return delta, false
	}

	last := products[len(products)-1]
	last.finalNet = last.finalNet.Add(delta)

	return delta, delta.Abs().GreaterThan(e.cfg.Tolerance(len(products)))
}
