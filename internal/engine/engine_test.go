package engine_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridia/invoice-summary/internal/engine"
	"github.com/veridia/invoice-summary/internal/model"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func line(id, qty, price, raw, name string) model.Line {
	return model.Line{
		ID:        id,
		Quantity:  d(qty),
		UnitPrice: dp(price),
		RawAmount: d(raw),
		ItemName:  name,
	}
}

func doc(number string, payable string, lines ...model.Line) model.Document {
	return model.Document{
		Type:         model.DocumentTypeInvoice,
		Number:       number,
		Supplier:     "ACME Corp SRL",
		IssueDate:    time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC),
		Currency:     "RON",
		TotalInvoice: d(payable),
		TotalPayable: d(payable),
		Lines:        lines,
	}
}

func sumFinal(rows []model.ResultRow) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.FinalValue)
	}
	return total
}

func TestProcess_LineLevelDiscounts(t *testing.T) {
	e := engine.New(engine.DefaultConfig())

	l1 := line("1", "-1", "334.8735", "-334.8735", "Service A")
	l1.Discount = dp("83.72")
	l2 := line("2", "-1", "334.8735", "-334.8735", "Service B")
	l2.Discount = dp("117.21")

	result := e.Process(doc("CN-1", "-468.82", l1, l2))
	require.NoError(t, result.Err)
	require.Len(t, result.Rows, 2)

	// -334.8735 + 83.72 = -251.1535, rounded -251.15
	assert.True(t, result.Rows[0].FinalValue.Equal(d("-251.15")), "got %s", result.Rows[0].FinalValue)
	// -334.8735 + 117.21 = -217.6635, rounded -217.66, plus the -0.01 residual
	assert.True(t, result.Rows[1].FinalValue.Equal(d("-217.67")), "got %s", result.Rows[1].FinalValue)

	assert.True(t, sumFinal(result.Rows).Equal(d("-468.82")))
	assert.False(t, result.Warning)
}

func TestProcess_VATFromNetAfterDiscount(t *testing.T) {
	e := engine.New(engine.DefaultConfig())

	l := line("1", "10", "8.32", "83.20", "Widget")
	l.Discount = dp("8.32")
	l.VATRate = d("21")

	result := e.Process(doc("INV-1", "74.88", l))
	require.NoError(t, result.Err)
	require.Len(t, result.Rows, 1)

	row := result.Rows[0]
	assert.True(t, row.FinalValue.Equal(d("74.88")), "got %s", row.FinalValue)
	assert.True(t, row.VATValue.Equal(d("15.72")), "got %s", row.VATValue)
	// Tax-inclusive line total
	assert.True(t, row.FinalValue.Add(row.VATValue).Equal(d("90.60")))
}

func TestProcess_FakeDiscountRedistribution(t *testing.T) {
	e := engine.New(engine.DefaultConfig())

	product := line("1", "5", "10", "50", "Widget")
	proxy := line("2", "-1", "5", "-5", "Discount 10%")

	result := e.Process(doc("INV-2", "45", product, proxy))
	require.NoError(t, result.Err)
	require.Len(t, result.Rows, 1)

	row := result.Rows[0]
	assert.Equal(t, "Widget", row.Product)
	assert.True(t, row.FinalValue.Equal(d("45")), "got %s", row.FinalValue)
	assert.True(t, row.DiscountValue.Equal(d("5.00")), "got %s", row.DiscountValue)
	require.NotNil(t, row.DiscountRate)
	assert.True(t, row.DiscountRate.Equal(d("10")), "got %s", row.DiscountRate)
	assert.False(t, result.Warning)
}

func TestProcess_FakeDiscountAcrossMultipleLines(t *testing.T) {
	// Mirrors a real document: four product lines, one DISCOUNT pseudo-line
	// worth roughly 10% of the total.
	e := engine.New(engine.DefaultConfig())

	lines := []model.Line{
		line("1", "10", "23.5290", "235.29", "Produs A"),
		line("2", "5", "12.6060", "63.03", "Produs B"),
		line("3", "10", "12.6050", "126.05", "Produs C"),
		line("4", "40", "10.0840", "403.36", "Produs D"),
		line("5", "-1", "82.77", "-82.77", "DISCOUNT 10%"),
	}

	result := e.Process(doc("INV-3", "744.96", lines...))
	require.NoError(t, result.Err)
	require.Len(t, result.Rows, 4)

	for _, row := range result.Rows {
		assert.NotContains(t, row.Product, "DISCOUNT")
	}
	assert.True(t, sumFinal(result.Rows).Equal(d("744.96")), "got %s", sumFinal(result.Rows))
	assert.False(t, result.Warning)
}

func TestProcess_RomanianDiscountMarker(t *testing.T) {
	e := engine.New(engine.DefaultConfig())

	product := line("1", "2", "50", "100", "Produs")
	proxy := line("2", "-1", "10", "-10", "Reducere comerciala")

	result := e.Process(doc("INV-4", "90", product, proxy))
	require.NoError(t, result.Err)
	require.Len(t, result.Rows, 1)
	assert.True(t, result.Rows[0].FinalValue.Equal(d("90")))
}

func TestProcess_NegativeQuantityAloneIsNotProxy(t *testing.T) {
	// A credit-note style line without a discount name stays a product.
	e := engine.New(engine.DefaultConfig())

	l1 := line("1", "5", "10", "50", "Widget")
	l2 := line("2", "-2", "10", "-20", "Widget returned")

	result := e.Process(doc("INV-5", "30", l1, l2))
	require.NoError(t, result.Err)
	require.Len(t, result.Rows, 2)
	assert.True(t, sumFinal(result.Rows).Equal(d("30")))
}

func TestProcess_DocumentDiscountFallback(t *testing.T) {
	e := engine.New(engine.DefaultConfig())

	document := doc("INV-6", "90",
		line("1", "3", "20", "60", "Widget A"),
		line("2", "4", "10", "40", "Widget B"),
	)
	document.TotalInvoice = d("90")
	document.DocumentDiscount = dp("10")

	result := e.Process(document)
	require.NoError(t, result.Err)
	require.Len(t, result.Rows, 2)

	// 10 distributed by raw weight: 6 and 4
	assert.True(t, result.Rows[0].FinalValue.Equal(d("54")), "got %s", result.Rows[0].FinalValue)
	assert.True(t, result.Rows[1].FinalValue.Equal(d("36")), "got %s", result.Rows[1].FinalValue)
	assert.True(t, sumFinal(result.Rows).Equal(d("90")))
}

func TestProcess_DocumentDiscountNotAppliedTwice(t *testing.T) {
	// The line-level discounts already reconcile against the stated total;
	// the document-level figure must not be subtracted again.
	e := engine.New(engine.DefaultConfig())

	l1 := line("1", "3", "20", "60", "Widget A")
	l1.Discount = dp("6")
	l2 := line("2", "4", "10", "40", "Widget B")
	l2.Discount = dp("4")

	document := doc("INV-7", "90", l1, l2)
	document.TotalInvoice = d("90")
	document.DocumentDiscount = dp("10")

	result := e.Process(document)
	require.NoError(t, result.Err)
	require.Len(t, result.Rows, 2)

	assert.True(t, result.Rows[0].FinalValue.Equal(d("54")), "got %s", result.Rows[0].FinalValue)
	assert.True(t, result.Rows[1].FinalValue.Equal(d("36")), "got %s", result.Rows[1].FinalValue)
	assert.True(t, sumFinal(result.Rows).Equal(d("90")))
}

func TestProcess_InconsistentDiscountSignIgnored(t *testing.T) {
	// A source that encodes the line discount with a negative sign gets the
	// same result as one with a positive magnitude.
	e := engine.New(engine.DefaultConfig())

	l := line("1", "10", "8.32", "83.20", "Widget")
	l.Discount = dp("-8.32")

	result := e.Process(doc("INV-8", "74.88", l))
	require.NoError(t, result.Err)
	require.Len(t, result.Rows, 1)
	assert.True(t, result.Rows[0].FinalValue.Equal(d("74.88")))
}

func TestProcess_MalformedLines(t *testing.T) {
	e := engine.New(engine.DefaultConfig())

	tests := []struct {
		name   string
		mutate func(*model.Line)
	}{
		{"zero quantity", func(l *model.Line) { l.Quantity = decimal.Zero }},
		{"missing unit price", func(l *model.Line) { l.UnitPrice = nil }},
		{"negative unit price", func(l *model.Line) { l.UnitPrice = dp("-1") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := line("1", "5", "10", "50", "Widget")
			tt.mutate(&l)

			result := e.Process(doc("INV-9", "50", l))
			require.Error(t, result.Err)

			var malformed *model.MalformedLineError
			require.ErrorAs(t, result.Err, &malformed)
			assert.Equal(t, "INV-9", malformed.DocumentNumber)
			assert.Empty(t, result.Rows)
		})
	}
}

func TestProcess_UnallocatableDiscount(t *testing.T) {
	e := engine.New(engine.DefaultConfig())

	product := line("1", "1", "0", "0", "Zero-value product")
	proxy := line("2", "-1", "5", "-5", "Discount")

	result := e.Process(doc("INV-10", "-5", product, proxy))
	require.Error(t, result.Err)

	var unallocatable *model.UnallocatableDiscountError
	require.ErrorAs(t, result.Err, &unallocatable)
	assert.Empty(t, result.Rows)
}

func TestProcess_AllProxyDocument(t *testing.T) {
	e := engine.New(engine.DefaultConfig())

	result := e.Process(doc("INV-11", "-5", line("1", "-1", "5", "-5", "Discount")))
	require.Error(t, result.Err)

	var unallocatable *model.UnallocatableDiscountError
	require.ErrorAs(t, result.Err, &unallocatable)
}

func TestProcess_ToleranceExceededStillReconciles(t *testing.T) {
	e := engine.New(engine.DefaultConfig())

	// Stated payable is 5.00 away from the line sum: far beyond one minor
	// unit per line. The rows are still emitted, flagged, and exact.
	result := e.Process(doc("INV-12", "45", line("1", "5", "10", "50", "Widget")))
	require.NoError(t, result.Err)
	require.Len(t, result.Rows, 1)

	assert.True(t, result.Warning)
	assert.True(t, result.Residual.Equal(d("-5")), "got %s", result.Residual)
	assert.True(t, sumFinal(result.Rows).Equal(d("45")))
}

func TestProcess_UnitPriceNeverNegative(t *testing.T) {
	e := engine.New(engine.DefaultConfig())

	result := e.Process(doc("CN-2", "-20", line("1", "-2", "10", "-20", "Widget")))
	require.NoError(t, result.Err)
	require.Len(t, result.Rows, 1)
	assert.True(t, result.Rows[0].UnitPrice.GreaterThanOrEqual(decimal.Zero))
	assert.True(t, result.Rows[0].Quantity.IsNegative())
}

func TestProcess_EmptyDocument(t *testing.T) {
	e := engine.New(engine.DefaultConfig())

	result := e.Process(doc("INV-13", "0"))
	require.NoError(t, result.Err)
	assert.Empty(t, result.Rows)
}

func TestProcess_Idempotent(t *testing.T) {
	e := engine.New(engine.DefaultConfig())

	l1 := line("1", "10", "23.5290", "235.29", "Produs A")
	l2 := line("2", "-1", "23.53", "-23.53", "Discount")
	document := doc("INV-14", "211.76", l1, l2)

	first := e.Process(document)
	second := e.Process(document)
	require.NoError(t, first.Err)
	require.NoError(t, second.Err)
	assert.Equal(t, first.Rows, second.Rows)
}
