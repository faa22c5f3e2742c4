package lint

import (
	"slices"
	"strings"

	"github.com/leapstack-labs/pkglint/pkg/core"
)

// Report returns violations sorted by (UnitName, RuleID), both ascending.
// The sort is stable, so ties keep their input order. The input is not modified.
func Report(violations []Violation) []Violation {
	out := make([]Violation, len(violations))
	copy(out, violations)
	slices.SortStableFunc(out, compareViolations)
	return out
}

func compareViolations(a, b Violation) int {
	if c := strings.Compare(a.UnitName, b.UnitName); c != 0 {
		return c
	}
	return strings.Compare(a.RuleID, b.RuleID)
}

// Summary counts violations by severity.
type Summary struct {
	Units       int `json:"units"`
	TotalIssues int `json:"totalIssues"`
	Errors      int `json:"errors"`
	Warnings    int `json:"warnings"`
	Info        int `json:"info"`
	Hints       int `json:"hints"`
}

// Summarize counts violations by severity and the number of distinct units
// they belong to.
func Summarize(violations []Violation) Summary {
	s := Summary{TotalIssues: len(violations)}
	units := make(map[string]struct{})
	for _, v := range violations {
		units[v.UnitName] = struct{}{}
		switch v.Severity {
		case core.SeverityError:
			s.Errors++
		case core.SeverityWarning:
			s.Warnings++
		case core.SeverityInfo:
			s.Info++
		case core.SeverityHint:
			s.Hints++
		}
	}
	s.Units = len(units)
	return s
}

// FilterBySeverity keeps violations at or above threshold.
func FilterBySeverity(violations []Violation, threshold core.Severity) []Violation {
	var out []Violation
	for _, v := range violations {
		if v.Severity <= threshold {
			out = append(out, v)
		}
	}
	return out
}
