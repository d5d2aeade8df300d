package ubl

import (
	"encoding/xml"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/veridia/invoice-summary/internal/model"
)

// UBL CreditNote structures. Same layout as the invoice except for the
// line element and quantity tag names.
type ublCreditNote struct {
	XMLName              xml.Name            `xml:"CreditNote"`
	ID                   string              `xml:"ID"`
	IssueDate            string              `xml:"IssueDate"`
	DueDate              string              `xml:"DueDate"`
	DocumentCurrencyCode string              `xml:"DocumentCurrencyCode"`
	Supplier             ublParty            `xml:"AccountingSupplierParty"`
	MonetaryTotal        ublMonetaryTotal    `xml:"LegalMonetaryTotal"`
	Lines                []ublCreditNoteLine `xml:"CreditNoteLine"`
}

type ublCreditNoteLine struct {
	ID                  string               `xml:"ID"`
	CreditedQuantity    ublQuantity          `xml:"CreditedQuantity"`
	LineExtensionAmount string               `xml:"LineExtensionAmount"`
	AllowanceCharges    []ublAllowanceCharge `xml:"AllowanceCharge"`
	Item                ublItem              `xml:"Item"`
	Price               *ublPrice            `xml:"Price"`
}

// CreditNoteAdapter parses UBL CreditNote documents
type CreditNoteAdapter struct{}

// NewCreditNoteAdapter creates a new credit note adapter
func NewCreditNoteAdapter() *CreditNoteAdapter {
	return &CreditNoteAdapter{}
}

// CanParse checks if content is a UBL CreditNote
func (a *CreditNoteAdapter) CanParse(content []byte) bool {
	return hasRoot(content, "CreditNote")
}

// Parse parses a UBL CreditNote into a Document with monetary fields and
// quantities signed negative.
func (a *CreditNoteAdapter) Parse(content []byte) (*model.Document, error) {
	var raw ublCreditNote
	if err := xml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("credit note XML: %w", err)
	}

	sign := decimal.NewFromInt(-1)
	doc, err := buildDocument(model.DocumentTypeCreditNote, raw.ID, raw.IssueDate, raw.DueDate,
		raw.DocumentCurrencyCode, raw.Supplier, raw.MonetaryTotal, sign)
	if err != nil {
		return nil, err
	}

	for _, line := range raw.Lines {
		converted, err := convertLine(line.ID, line.CreditedQuantity, line.LineExtensionAmount,
			line.AllowanceCharges, line.Item, line.Price, sign)
		if err != nil {
			return nil, fmt.Errorf("credit note %s: %w", raw.ID, err)
		}
		doc.Lines = append(doc.Lines, converted)
	}

	return doc, nil
}
