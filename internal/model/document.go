package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType distinguishes invoices from credit notes
type DocumentType string

const (
	DocumentTypeInvoice    DocumentType = "invoice"
	DocumentTypeCreditNote DocumentType = "credit_note"
)

// Document is a parsed invoice or credit note. A credit note carries
// monetary fields and quantities already signed negative by the loader;
// the computation pipeline never branches on Type.
type Document struct {
	Type             DocumentType     `json:"type"`
	Number           string           `json:"number"`
	Supplier         string           `json:"supplier"`
	IssueDate        time.Time        `json:"issue_date"`
	DueDate          *time.Time       `json:"due_date,omitempty"`
	Currency         string           `json:"currency"`
	TotalInvoice     decimal.Decimal  `json:"total_invoice"`
	TotalPayable     decimal.Decimal  `json:"total_payable"`
	DocumentDiscount *decimal.Decimal `json:"document_discount,omitempty"`
	Lines            []Line           `json:"lines"`
}

// Line is one priced entry within a document, as received from the loader.
// Order within Document.Lines is significant: it is preserved in output and
// is the tie-break for deterministic rounding correction.
type Line struct {
	ID        string           `json:"id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	UnitCode  string           `json:"unit_code,omitempty"`
	RawAmount decimal.Decimal  `json:"raw_amount"`
	ItemName  string           `json:"item_name"`
	ItemCode  string           `json:"item_code,omitempty"`
	VATRate   decimal.Decimal  `json:"vat_rate"`
	Discount  *decimal.Decimal `json:"discount,omitempty"`
}

// DiscountMagnitude returns the line-level discount as a non-negative
// magnitude. Source sign anomalies are ignored.
func (l Line) DiscountMagnitude() decimal.Decimal {
	if l.Discount == nil {
		return decimal.Zero
	}
	return l.Discount.Abs()
}

// ResultRow is one product line of the reconciled output. Immutable once
// produced; every monetary field is rounded to the configured precision.
type ResultRow struct {
	Supplier       string           `json:"supplier"`
	DocumentNumber string           `json:"document_number"`
	DocumentDate   time.Time        `json:"document_date"`
	Currency       string           `json:"currency"`
	TotalInvoice   decimal.Decimal  `json:"total_invoice"`
	TotalPayable   decimal.Decimal  `json:"total_payable"`
	Product        string           `json:"product"`
	ProductCode    string           `json:"product_code,omitempty"`
	Quantity       decimal.Decimal  `json:"quantity"`
	UnitCode       string           `json:"unit_code,omitempty"`
	UnitPrice      decimal.Decimal  `json:"unit_price"`
	LineValue      decimal.Decimal  `json:"line_value"`
	VATRate        decimal.Decimal  `json:"vat_rate"`
	VATValue       decimal.Decimal  `json:"vat_value"`
	DiscountRate   *decimal.Decimal `json:"discount_rate,omitempty"`
	DiscountValue  decimal.Decimal  `json:"discount_value"`
	FinalValue     decimal.Decimal  `json:"final_value"`
}

// DocumentResult is the per-document outcome of the pipeline: either rows
// plus an optional reconciliation warning, or a recorded failure.
type DocumentResult struct {
	DocumentNumber string          `json:"document_number"`
	Supplier       string          `json:"supplier"`
	Rows           []ResultRow     `json:"rows,omitempty"`
	Warning        bool            `json:"warning,omitempty"`
	Residual       decimal.Decimal `json:"residual"`
	Err            error           `json:"-"`
	ErrorMessage   string          `json:"error,omitempty"`
}

// Failed reports whether the document was skipped in full.
func (r DocumentResult) Failed() bool {
	return r.Err != nil
}

// SummaryRow is one document of the document-level summary listing.
type SummaryRow struct {
	DocumentNumber string          `json:"document_number"`
	Supplier       string          `json:"supplier"`
	IssueDate      time.Time       `json:"issue_date"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	PayableAmount  decimal.Decimal `json:"payable_amount"`
	Currency       string          `json:"currency"`
	IsCreditNote   bool            `json:"is_credit_note"`
}
