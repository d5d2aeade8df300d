package model

import "fmt"

// MalformedLineError reports a line that cannot enter the computation:
// missing or negative unit price, or zero quantity. The owning document is
// skipped in full so the sum invariant is never violated by partial output.
type MalformedLineError struct {
	DocumentNumber string
	LineID         string
	Reason         string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("document %s line %s: %s", e.DocumentNumber, e.LineID, e.Reason)
}

// NewMalformedLineError creates a new malformed line error
func NewMalformedLineError(documentNumber, lineID, reason string) *MalformedLineError {
	return &MalformedLineError{
		DocumentNumber: documentNumber,
		LineID:         lineID,
		Reason:         reason,
	}
}

// UnallocatableDiscountError reports a discount that must be distributed
// while the weighting base (sum of absolute raw amounts over product
// entries) is zero.
type UnallocatableDiscountError struct {
	DocumentNumber string
	Discount       string
}

func (e *UnallocatableDiscountError) Error() string {
	return fmt.Sprintf("document %s: cannot allocate discount %s, weighting base is zero", e.DocumentNumber, e.Discount)
}

// NewUnallocatableDiscountError creates a new unallocatable discount error
func NewUnallocatableDiscountError(documentNumber, discount string) *UnallocatableDiscountError {
	return &UnallocatableDiscountError{
		DocumentNumber: documentNumber,
		Discount:       discount,
	}
}

// FilterUsageError reports invalid selector criteria, such as supplying
// only one end of the date range. Raised before any document is touched.
type FilterUsageError struct {
	Message string
}

func (e *FilterUsageError) Error() string {
	return e.Message
}

// NewFilterUsageError creates a new filter usage error
func NewFilterUsageError(message string) *FilterUsageError {
	return &FilterUsageError{Message: message}
}

// LoadError reports a document that could not be parsed by the loader.
// It is recorded per document exactly like internal allocation failures.
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load %s: %s (%v)", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("load %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// NewLoadError creates a new load error
func NewLoadError(path, message string, cause error) *LoadError {
	return &LoadError{
		Path:    path,
		Message: message,
		Cause:   cause,
	}
}
