package engine

import (
	"github.com/shopspring/decimal"

	"github.com/veridia/invoice-summary/internal/model"
	"github.com/veridia/invoice-summary/internal/money"
)

// allocate distributes discounts across product entries. Two passes,
// mutually exclusive:
//
// Pass A redistributes the net value of discount-proxy lines over the
// product entries, weighted by absolute raw amount. The proxies are
// dropped from the result set entirely.
//
// Pass B is the document-level fallback: it runs only when there are no
// proxy lines and the line-level nets do not already reconcile against
// the stated document total. This keeps a discount that is stated both
// at document level and per line from being subtracted twice.
//
// Weighting uses |raw_amount| rather than net or quantity so that mixed
// invoice and credit-note directions within one document cannot cancel
// the weighting base.
func (e *Engine) allocate(doc model.Document, products, proxies []*lineComputation) error {
	if len(proxies) > 0 {
		totalSpecial := totalProxyDiscount(proxies)
		return e.distribute(doc, products, totalSpecial)
	}

	discount := documentDiscount(doc)
	if discount.IsZero() {
		return nil
	}

	netSum := money.Zero
	for _, p := range products {
		netSum = netSum.Add(p.netAfterLine)
	}
	gap := netSum.Sub(doc.TotalInvoice)
	if gap.Abs().LessThanOrEqual(e.cfg.Tolerance(len(products))) {
		// Line-level discounts already reconcile; the document-level
		// figure is a restatement, not an extra allowance.
		e.log.Debug().
			Str("document", doc.Number).
			Str("gap", gap.String()).
			Msg("document discount already reflected per line")
		return nil
	}

	// Apply the magnitude in the direction that reduces the absolute net
	// sum, mirroring the line-level discount rule.
	signed := discount.Neg()
	if netSum.IsNegative() {
		signed = discount
	}
	return e.distribute(doc, products, signed)
}

// distribute spreads total proportionally by |raw_amount| on top of each
// entry's own net.
func (e *Engine) distribute(doc model.Document, products []*lineComputation, total decimal.Decimal) error {
	base := money.Zero
	for _, p := range products {
		base = base.Add(p.line.RawAmount.Abs())
	}
	if base.IsZero() {
		return model.NewUnallocatableDiscountError(doc.Number, total.String())
	}

	for _, p := range products {
		share := money.Share(total, p.line.RawAmount.Abs(), base)
		p.allocated = share
		p.finalNet = p.netAfterLine.Add(share)
	}
	return nil
}

// documentDiscount returns the document-level discount as a magnitude.
// Sources occasionally encode it with an inconsistent sign.
func documentDiscount(doc model.Document) decimal.Decimal {
	if doc.DocumentDiscount == nil {
		return money.Zero
	}
	return doc.DocumentDiscount.Abs()
}
