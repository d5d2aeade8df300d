// Package ubl parses UBL 2.1 Invoice and CreditNote XML into documents.
//
// The model covers the subset of UBL the pipeline needs: identity, dates,
// supplier name, monetary totals and line items with allowances. Schema
// validation is out of scope; documents are assumed well formed.
package ubl

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/veridia/invoice-summary/internal/model"
)

// Adapter parses one UBL document kind into a Document
type Adapter interface {
	// Parse parses XML content into a Document
	Parse(content []byte) (*model.Document, error)

	// CanParse returns true if adapter can handle this content
	CanParse(content []byte) bool
}

// Registry holds all registered adapters
type Registry struct {
	adapters []Adapter
}

// NewRegistry creates registry with all adapters.
// CreditNote comes first: credit notes may reference the invoice they
// correct, so the invoice markers are the more generic ones.
func NewRegistry() *Registry {
	return &Registry{
		adapters: []Adapter{
			NewCreditNoteAdapter(),
			NewInvoiceAdapter(),
		},
	}
}

// Parse parses XML content using the first matching adapter
func (r *Registry) Parse(content []byte) (*model.Document, error) {
	for _, a := range r.adapters {
		if a.CanParse(content) {
			return a.Parse(content)
		}
	}
	return nil, fmt.Errorf("unknown document format, expected UBL Invoice or CreditNote")
}

// Shared UBL fragments

type ublQuantity struct {
	Value    string `xml:",chardata"`
	UnitCode string `xml:"unitCode,attr"`
}

type ublParty struct {
	Name             string `xml:"Party>PartyName>Name"`
	RegistrationName string `xml:"Party>PartyLegalEntity>RegistrationName"`
}

// supplierName prefers PartyName and falls back to the legal entity's
// registration name.
func (p ublParty) supplierName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.RegistrationName != "" {
		return p.RegistrationName
	}
	return "Unknown"
}

type ublMonetaryTotal struct {
	TaxInclusiveAmount   string `xml:"TaxInclusiveAmount"`
	AllowanceTotalAmount string `xml:"AllowanceTotalAmount"`
	PayableAmount        string `xml:"PayableAmount"`
}

type ublAllowanceCharge struct {
	ChargeIndicator bool   `xml:"ChargeIndicator"`
	Amount          string `xml:"Amount"`
}

type ublItem struct {
	Name         string `xml:"Name"`
	SellerItemID string `xml:"SellersItemIdentification>ID"`
	TaxPercent   string `xml:"ClassifiedTaxCategory>Percent"`
}

type ublPrice struct {
	PriceAmount string `xml:"PriceAmount"`
}

// parseAmount parses a decimal field, treating the empty string as zero
func parseAmount(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	return d, nil
}

// parseDate parses a UBL date (YYYY-MM-DD)
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	return t, nil
}

// splitAllowances folds a line's allowance charges into a single discount
// magnitude. Charges (ChargeIndicator true) increase the net and are
// folded into the raw amount by the caller; discounts are returned as a
// magnitude regardless of the sign the source used.
func splitAllowances(field string, allowances []ublAllowanceCharge) (discount, charge decimal.Decimal, err error) {
	discount = decimal.Zero
	charge = decimal.Zero
	for _, a := range allowances {
		amount, err := parseAmount(field, a.Amount)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		if a.ChargeIndicator {
			charge = charge.Add(amount.Abs())
		} else {
			discount = discount.Add(amount.Abs())
		}
	}
	return discount, charge, nil
}

func hasRoot(content []byte, root string) bool {
	// Match "<Invoice " / "<Invoice>" and namespace-prefixed forms.
	for _, marker := range []string{"<" + root + " ", "<" + root + ">", ":" + root + " ", ":" + root + ">"} {
		if bytes.Contains(content, []byte(marker)) {
			return true
		}
	}
	return false
}
