package rules

import (
	"strings"
	"unicode"

	"github.com/leapstack-labs/pkglint/pkg/core"
	"github.com/leapstack-labs/pkglint/pkg/lint"
)

// IDLowercaseOnly is the ID of the lowercase-only rule.
const IDLowercaseOnly = "lowercase-only"

// LowercaseOnly rejects package names with uppercase letters or underscores.
func LowercaseOnly() lint.RuleDef {
	return lint.RuleDef{
		ID:          IDLowercaseOnly,
		Name:        "naming.lowercase",
		Group:       GroupNaming,
		Description: "Package names are lowercase, with no underscores or mixedCaps.",
		Severity:    core.SeverityWarning,
		Check:       checkLowercaseOnly,
		Rationale:   "The package name is the prefix of every exported identifier; a short lowercase word reads cleanly at call sites.",
		BadExample:  "package httpServer",
		GoodExample: "package httpserver",
	}
}

func checkLowercaseOnly(unit lint.Unit) *lint.Violation {
	hasUpper := strings.IndexFunc(unit.Name, unicode.IsUpper) >= 0
	hasUnderscore := strings.Contains(unit.Name, "_")

	switch {
	case hasUpper && hasUnderscore:
		return lint.Violationf("package name %q contains uppercase letters and underscores", unit.Name)
	case hasUpper:
		return lint.Violationf("package name %q contains uppercase letters", unit.Name)
	case hasUnderscore:
		return lint.Violationf("package name %q contains underscores", unit.Name)
	}
	return nil
}
