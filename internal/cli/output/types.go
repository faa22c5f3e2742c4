package output

import "github.com/leapstack-labs/pkglint/pkg/lint"

// LintOutput is the JSON document written by the lint command.
type LintOutput struct {
	UnitsChecked int              `json:"unitsChecked"`
	Summary      lint.Summary     `json:"summary"`
	Violations   []lint.Violation `json:"violations"`
}

// NewLintOutput builds a LintOutput, never leaving Violations nil.
func NewLintOutput(unitsChecked int, violations []lint.Violation) LintOutput {
	if violations == nil {
		violations = []lint.Violation{}
	}
	return LintOutput{
		UnitsChecked: unitsChecked,
		Summary:      lint.Summarize(violations),
		Violations:   violations,
	}
}
