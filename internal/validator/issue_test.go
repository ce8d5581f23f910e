package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rentlens/internal/domain"
	"rentlens/internal/validator"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		name   string
		issues []validator.Issue
		want   bool
	}{
		{"no issues", nil, true},
		{
			"warnings only",
			[]validator.Issue{
				{Field: "address", Severity: domain.SeverityWarning, Message: "low confidence"},
				{Field: "bedrooms", Severity: domain.SeverityWarning, Message: "low confidence"},
			},
			true,
		},
		{
			"single error",
			[]validator.Issue{
				{Field: "price_monthly", Severity: domain.SeverityError, Message: "out of range"},
			},
			false,
		},
		{
			"error among warnings",
			[]validator.Issue{
				{Field: "address", Severity: domain.SeverityWarning, Message: "low confidence"},
				{Field: "price_monthly", Severity: domain.SeverityError, Message: "out of range"},
			},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validator.IsValid(tt.issues))
		})
	}
}

func TestSortIssues_ErrorsFirst(t *testing.T) {
	in := []validator.Issue{
		{Field: "A", Severity: domain.SeverityWarning},
		{Field: "B", Severity: domain.SeverityError},
		{Field: "C", Severity: domain.SeverityWarning},
		{Field: "D", Severity: domain.SeverityError},
	}

	out := validator.SortIssues(in)

	fields := make([]string, 0, len(out))
	for _, i := range out {
		fields = append(fields, i.Field)
	}
	// Stable: errors first, insertion order preserved within each severity.
	assert.Equal(t, []string{"B", "D", "A", "C"}, fields)
}

func TestSortIssues_UnknownSeverityLast(t *testing.T) {
	in := []validator.Issue{
		{Field: "A", Severity: domain.Severity("mystery")},
		{Field: "B", Severity: domain.SeverityWarning},
		{Field: "C", Severity: domain.SeverityError},
	}

	out := validator.SortIssues(in)

	assert.Equal(t, "C", out[0].Field)
	assert.Equal(t, "B", out[1].Field)
	assert.Equal(t, "A", out[2].Field)
}

func TestSortIssues_DoesNotMutateInput(t *testing.T) {
	in := []validator.Issue{
		{Field: "A", Severity: domain.SeverityWarning},
		{Field: "B", Severity: domain.SeverityError},
	}

	_ = validator.SortIssues(in)

	assert.Equal(t, "A", in[0].Field)
	assert.Equal(t, "B", in[1].Field)
}
