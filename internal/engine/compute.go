package engine

import (
	"github.com/veridia/invoice-summary/internal/model"
	"github.com/veridia/invoice-summary/internal/money"
)

// computeLine normalizes one raw line into a lineComputation.
//
// The line-level discount is always subtracted in the direction that
// reduces the absolute value of the line, regardless of any sign anomaly
// in the source discount field: a negative-quantity line's net moves
// toward zero, matching credit-note semantics.
func (e *Engine) computeLine(documentNumber string, line model.Line) (*lineComputation, error) {
	if line.Quantity.IsZero() {
		return nil, model.NewMalformedLineError(documentNumber, line.ID, "zero quantity cannot be priced")
	}
	if line.UnitPrice == nil {
		return nil, model.NewMalformedLineError(documentNumber, line.ID, "missing unit price")
	}
	if line.UnitPrice.IsNegative() {
		return nil, model.NewMalformedLineError(documentNumber, line.ID, "negative unit price")
	}

	discount := line.DiscountMagnitude()
	netAfterLine := line.RawAmount.Sub(money.Sign(line.Quantity).Mul(discount))
	vatValue := money.VAT(netAfterLine, line.VATRate, e.cfg.Precision)

	return &lineComputation{
		line:            line,
		unitPrice:       *line.UnitPrice,
		vatValue:        vatValue,
		netAfterLine:    netAfterLine,
		isDiscountProxy: isDiscountProxy(line),
		finalNet:        netAfterLine,
	}, nil
}
