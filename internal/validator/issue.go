package validator

import (
	"sort"

	"rentlens/internal/domain"
)

// Issue is one validation finding. Issues are created by exactly one validator
// call and never mutated afterwards.
type Issue struct {
	Field    string          `json:"field"`
	Severity domain.Severity `json:"severity"`
	Message  string          `json:"message"`
}

// severityRank orders severities for sorting. Unknown severities rank 0 and
// sort last.
var severityRank = map[domain.Severity]int{
	domain.SeverityError:   2,
	domain.SeverityWarning: 1,
}

// IsValid reports whether a set of issues leaves the record valid: true iff no
// issue carries error severity. Warnings alone do not invalidate a record.
func IsValid(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == domain.SeverityError {
			return false
		}
	}
	return true
}

// SortIssues returns the issues ordered by severity rank descending. The sort
// is stable: issues of equal severity keep their original relative order. The
// input slice is not modified.
func SortIssues(issues []Issue) []Issue {
	out := make([]Issue, len(issues))
	copy(out, issues)
	sort.SliceStable(out, func(a, b int) bool {
		return severityRank[out[a].Severity] > severityRank[out[b].Severity]
	})
	return out
}
