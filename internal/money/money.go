// Package money holds the shared decimal arithmetic for the reconciliation
// pipeline. All rounding is parameterized on the currency's minor-unit
// precision so the engine never assumes two decimal places.
package money

import (
	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

var hundred = decimal.NewFromInt(100)

// FromString parses decimal from string
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustFromString parses decimal from string, panics on error
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Round rounds half away from zero to the given precision
func Round(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Round(precision)
}

// RoundBank rounds half to even to the given precision. Used for VAT so
// repeated per-line rounding does not drift in one direction.
func RoundBank(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.RoundBank(precision)
}

// MinorUnit returns one minor currency unit for the precision, e.g. 0.01
// for precision 2.
func MinorUnit(precision int32) decimal.Decimal {
	return decimal.New(1, -precision)
}

// VAT computes amount * rate / 100, rounded half to even
func VAT(amount, ratePercent decimal.Decimal, precision int32) decimal.Decimal {
	return amount.Mul(ratePercent).Div(hundred).RoundBank(precision)
}

// Share computes total * weight / base without rounding. The caller owns
// any residual left by later rounding.
func Share(total, weight, base decimal.Decimal) decimal.Decimal {
	return total.Mul(weight).Div(base)
}

// RatePercent computes |part| / |whole| * 100 rounded to two places
func RatePercent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return Zero
	}
	return part.Abs().Div(whole.Abs()).Mul(hundred).Round(2)
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// Sign returns 1 for positive, -1 for negative and 0 for zero
func Sign(d decimal.Decimal) decimal.Decimal {
	switch d.Sign() {
	case 1:
		return decimal.NewFromInt(1)
	case -1:
		return decimal.NewFromInt(-1)
	default:
		return Zero
	}
}
