package ubl

import (
	"encoding/xml"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/veridia/invoice-summary/internal/model"
)

// UBL Invoice structures (UBL 2.1 maindoc subset)
type ublInvoice struct {
	XMLName              xml.Name         `xml:"Invoice"`
	ID                   string           `xml:"ID"`
	IssueDate            string           `xml:"IssueDate"`
	DueDate              string           `xml:"DueDate"`
	DocumentCurrencyCode string           `xml:"DocumentCurrencyCode"`
	Supplier             ublParty         `xml:"AccountingSupplierParty"`
	MonetaryTotal        ublMonetaryTotal `xml:"LegalMonetaryTotal"`
	Lines                []ublInvoiceLine `xml:"InvoiceLine"`
}

type ublInvoiceLine struct {
	ID                  string               `xml:"ID"`
	InvoicedQuantity    ublQuantity          `xml:"InvoicedQuantity"`
	LineExtensionAmount string               `xml:"LineExtensionAmount"`
	AllowanceCharges    []ublAllowanceCharge `xml:"AllowanceCharge"`
	Item                ublItem              `xml:"Item"`
	Price               *ublPrice            `xml:"Price"`
}

// InvoiceAdapter parses UBL Invoice documents
type InvoiceAdapter struct{}

// NewInvoiceAdapter creates a new invoice adapter
func NewInvoiceAdapter() *InvoiceAdapter {
	return &InvoiceAdapter{}
}

// CanParse checks if content is a UBL Invoice
func (a *InvoiceAdapter) CanParse(content []byte) bool {
	return hasRoot(content, "Invoice")
}

// Parse parses a UBL Invoice into a Document
func (a *InvoiceAdapter) Parse(content []byte) (*model.Document, error) {
	var raw ublInvoice
	if err := xml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("invoice XML: %w", err)
	}

	doc, err := buildDocument(model.DocumentTypeInvoice, raw.ID, raw.IssueDate, raw.DueDate,
		raw.DocumentCurrencyCode, raw.Supplier, raw.MonetaryTotal, decimal.NewFromInt(1))
	if err != nil {
		return nil, err
	}

	for _, line := range raw.Lines {
		converted, err := convertLine(line.ID, line.InvoicedQuantity, line.LineExtensionAmount,
			line.AllowanceCharges, line.Item, line.Price, decimal.NewFromInt(1))
		if err != nil {
			return nil, fmt.Errorf("invoice %s: %w", raw.ID, err)
		}
		doc.Lines = append(doc.Lines, converted)
	}

	return doc, nil
}

// buildDocument assembles the document header, applying sign to every
// monetary total. Credit notes pass sign -1 so the core always sees
// already-signed documents and never branches on type.
func buildDocument(
	docType model.DocumentType,
	id, issueDate, dueDate, currency string,
	supplier ublParty,
	totals ublMonetaryTotal,
	sign decimal.Decimal,
) (*model.Document, error) {
	issued, err := parseDate("IssueDate", issueDate)
	if err != nil {
		return nil, err
	}

	doc := &model.Document{
		Type:      docType,
		Number:    id,
		Supplier:  supplier.supplierName(),
		IssueDate: issued,
		Currency:  currency,
	}
	if doc.Currency == "" {
		doc.Currency = "RON"
	}

	if dueDate != "" {
		due, err := parseDate("DueDate", dueDate)
		if err != nil {
			return nil, err
		}
		doc.DueDate = &due
	}

	totalInvoice, err := parseAmount("TaxInclusiveAmount", totals.TaxInclusiveAmount)
	if err != nil {
		return nil, err
	}
	payable, err := parseAmount("PayableAmount", totals.PayableAmount)
	if err != nil {
		return nil, err
	}
	doc.TotalInvoice = totalInvoice.Mul(sign)
	doc.TotalPayable = payable.Mul(sign)

	if totals.AllowanceTotalAmount != "" {
		allowance, err := parseAmount("AllowanceTotalAmount", totals.AllowanceTotalAmount)
		if err != nil {
			return nil, err
		}
		if !allowance.IsZero() {
			magnitude := allowance.Abs()
			doc.DocumentDiscount = &magnitude
		}
	}

	return doc, nil
}

// convertLine converts one UBL line, folding charges into the raw amount
// and keeping the discount as a magnitude. Quantity and raw amount carry
// the document sign; the unit price never does.
func convertLine(
	id string,
	quantity ublQuantity,
	extensionAmount string,
	allowances []ublAllowanceCharge,
	item ublItem,
	price *ublPrice,
	sign decimal.Decimal,
) (model.Line, error) {
	qty, err := parseAmount("quantity", quantity.Value)
	if err != nil {
		return model.Line{}, err
	}
	raw, err := parseAmount("LineExtensionAmount", extensionAmount)
	if err != nil {
		return model.Line{}, err
	}
	vatRate, err := parseAmount("Percent", item.TaxPercent)
	if err != nil {
		return model.Line{}, err
	}
	discount, charge, err := splitAllowances("AllowanceCharge amount", allowances)
	if err != nil {
		return model.Line{}, err
	}

	qty = qty.Mul(sign)
	raw = raw.Add(charge).Mul(sign)

	line := model.Line{
		ID:        id,
		Quantity:  qty,
		UnitCode:  quantity.UnitCode,
		RawAmount: raw,
		ItemName:  item.Name,
		ItemCode:  item.SellerItemID,
		VATRate:   vatRate,
	}

	if !discount.IsZero() {
		line.Discount = &discount
	}

	if price != nil && price.PriceAmount != "" {
		unitPrice, err := parseAmount("PriceAmount", price.PriceAmount)
		if err != nil {
			return model.Line{}, err
		}
		unitPrice = unitPrice.Abs()
		line.UnitPrice = &unitPrice
	} else if !qty.IsZero() {
		// Derive the per-unit price when the source omits it.
		unitPrice := raw.Div(qty).Abs()
		line.UnitPrice = &unitPrice
	}

	return line, nil
}
