package rules

import (
	"github.com/leapstack-labs/pkglint/pkg/core"
	"github.com/leapstack-labs/pkglint/pkg/lint"
)

// IDRequiresLeadingDoc is the ID of the requires-leading-doc rule.
const IDRequiresLeadingDoc = "requires-leading-doc"

// RequiresLeadingDoc rejects packages without a package doc comment.
// Entry points are not exempt.
func RequiresLeadingDoc() lint.RuleDef {
	return lint.RuleDef{
		ID:          IDRequiresLeadingDoc,
		Name:        "documentation.package_doc",
		Group:       GroupDocumentation,
		Description: "Every package, including main packages, has a leading doc comment.",
		Severity:    core.SeverityWarning,
		Check:       checkRequiresLeadingDoc,
		Rationale:   "The package comment is the first thing documentation tools show; commands use it to describe their usage.",
		BadExample:  "package retry",
		GoodExample: "// Package retry re-runs operations with backoff.\npackage retry",
	}
}

func checkRequiresLeadingDoc(unit lint.Unit) *lint.Violation {
	if unit.HasLeadingDoc {
		return nil
	}
	if unit.IsEntryPoint {
		return lint.Violationf("command %q has no leading doc comment", unit.ImportPath())
	}
	return lint.Violationf("package %q has no leading doc comment", unit.Name)
}
