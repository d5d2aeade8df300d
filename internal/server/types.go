package server

import (
	"github.com/veridia/invoice-summary/internal/model"
)

// DocumentsResponse is the response for the documents endpoint
type DocumentsResponse struct {
	Documents []model.SummaryRow `json:"documents"`
	Failures  []DocumentFailure  `json:"failures,omitempty"`
}

// ProductsResponse is the response for the products endpoint
type ProductsResponse struct {
	Rows     []model.ResultRow       `json:"rows"`
	Warnings []ReconciliationWarning `json:"warnings,omitempty"`
	Failures []DocumentFailure       `json:"failures,omitempty"`
}

// ReconciliationWarning flags a document whose residual correction
// exceeded the configured tolerance.
type ReconciliationWarning struct {
	DocumentNumber string `json:"document_number"`
	Residual       string `json:"residual"`
}

// DocumentFailure reports a document that produced no rows
type DocumentFailure struct {
	DocumentNumber string `json:"document_number"`
	Error          string `json:"error"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
