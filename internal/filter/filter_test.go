package filter_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridia/invoice-summary/internal/filter"
	"github.com/veridia/invoice-summary/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func docs() []model.Document {
	return []model.Document{
		{Number: "FIMCGB8202", Supplier: "ACME Corp SRL", IssueDate: day(2025, 2, 5)},
		{Number: "POKA W 9262655", Supplier: "Other ACME", IssueDate: day(2025, 3, 1)},
		{Number: "CN-17", Supplier: "Gursk Distribution", IssueDate: day(2025, 3, 15)},
	}
}

func TestApply_NoCriteriaMatchesAll(t *testing.T) {
	selected, err := filter.Criteria{}.Apply(docs())
	require.NoError(t, err)
	assert.Len(t, selected, 3)
}

func TestApply_SupplierWildcardIsAnchored(t *testing.T) {
	// "ACME*" is a prefix match on the full field: it matches
	// "ACME Corp SRL" but not "Other ACME".
	selected, err := filter.Criteria{Supplier: "ACME*"}.Apply(docs())
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "ACME Corp SRL", selected[0].Supplier)

	selected, err = filter.Criteria{Supplier: "*ACME*"}.Apply(docs())
	require.NoError(t, err)
	assert.Len(t, selected, 2)
}

func TestApply_CaseInsensitive(t *testing.T) {
	selected, err := filter.Criteria{Supplier: "acme*"}.Apply(docs())
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "ACME Corp SRL", selected[0].Supplier)
}

func TestApply_QuestionMarkMatchesOneCharacter(t *testing.T) {
	selected, err := filter.Criteria{Number: "CN-??"}.Apply(docs())
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "CN-17", selected[0].Number)

	selected, err = filter.Criteria{Number: "CN-?"}.Apply(docs())
	require.NoError(t, err)
	assert.Empty(t, selected)
}

func TestApply_LiteralPatternNeedsFullMatch(t *testing.T) {
	selected, err := filter.Criteria{Supplier: "ACME"}.Apply(docs())
	require.NoError(t, err)
	assert.Empty(t, selected)
}

func TestApply_DateRangeInclusive(t *testing.T) {
	criteria := filter.Criteria{
		Start: dayPtr(2025, 3, 1),
		End:   dayPtr(2025, 3, 15),
	}
	selected, err := criteria.Apply(docs())
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, "POKA W 9262655", selected[0].Number)
	assert.Equal(t, "CN-17", selected[1].Number)
}

func TestApply_CombinedCriteria(t *testing.T) {
	criteria := filter.Criteria{
		Supplier: "*ACME*",
		Start:    dayPtr(2025, 3, 1),
		End:      dayPtr(2025, 3, 31),
	}
	selected, err := criteria.Apply(docs())
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "Other ACME", selected[0].Supplier)
}

func TestValidate_DateRangeRequiresBothEnds(t *testing.T) {
	tests := []struct {
		name     string
		criteria filter.Criteria
	}{
		{"only start", filter.Criteria{Start: dayPtr(2025, 1, 1)}},
		{"only end", filter.Criteria{End: dayPtr(2025, 1, 1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.criteria.Apply(docs())
			require.Error(t, err)

			var usage *model.FilterUsageError
			assert.ErrorAs(t, err, &usage)
		})
	}
}

func TestValidate_StartAfterEnd(t *testing.T) {
	criteria := filter.Criteria{
		Start: dayPtr(2025, 2, 1),
		End:   dayPtr(2025, 1, 1),
	}
	err := criteria.Validate()
	require.Error(t, err)

	var usage *model.FilterUsageError
	assert.ErrorAs(t, err, &usage)
}

func TestApply_PreservesOrder(t *testing.T) {
	selected, err := filter.Criteria{Supplier: "*"}.Apply(docs())
	require.NoError(t, err)
	require.Len(t, selected, 3)
	assert.Equal(t, "FIMCGB8202", selected[0].Number)
	assert.Equal(t, "POKA W 9262655", selected[1].Number)
	assert.Equal(t, "CN-17", selected[2].Number)
}
