// Package filter selects documents before they enter the computation
// pipeline.
package filter

import (
	"regexp"
	"strings"
	"time"

	"github.com/veridia/invoice-summary/internal/model"
)

// Criteria narrows a document collection. Zero-valued criteria match
// every document.
//
// Supplier and Number are glob-style wildcard patterns (`*`, `?`) matched
// case-insensitively against the full field: "ACME*" matches
// "ACME Corp SRL" but not "Other ACME". Start and End form an inclusive
// range on the document date and must be supplied together.
type Criteria struct {
	Supplier string
	Number   string
	Start    *time.Time
	End      *time.Time
}

// Validate rejects unusable criteria before any document is touched.
func (c Criteria) Validate() error {
	if (c.Start == nil) != (c.End == nil) {
		return model.NewFilterUsageError("start date and end date must be supplied together")
	}
	if c.Start != nil && c.Start.After(*c.End) {
		return model.NewFilterUsageError("start date must be before or equal to end date")
	}
	return nil
}

// Apply validates the criteria and returns the matching documents in
// their original order.
func (c Criteria) Apply(docs []model.Document) ([]model.Document, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	selected := make([]model.Document, 0, len(docs))
	for _, doc := range docs {
		if c.matches(doc) {
			selected = append(selected, doc)
		}
	}
	return selected, nil
}

func (c Criteria) matches(doc model.Document) bool {
	if c.Supplier != "" && !matchWildcard(c.Supplier, doc.Supplier) {
		return false
	}
	if c.Number != "" && !matchWildcard(c.Number, doc.Number) {
		return false
	}
	if c.Start != nil {
		day := doc.IssueDate
		if day.Before(*c.Start) || day.After(*c.End) {
			return false
		}
	}
	return true
}

// matchWildcard matches value against a glob pattern, case-insensitively
// and anchored at both ends.
func matchWildcard(pattern, value string) bool {
	var b strings.Builder
	b.WriteString("(?i)^")
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return false
	}
	return re.MatchString(value)
}
