package rules

import (
	"github.com/leapstack-labs/pkglint/pkg/core"
	"github.com/leapstack-labs/pkglint/pkg/lint"
)

// IDNoGenericName is the ID of the no-generic-name rule.
const IDNoGenericName = "no-generic-name"

// NoGenericName rejects names in opts.GenericNameDenylist.
func NoGenericName(opts Options) lint.RuleDef {
	denied := newNameSet(opts.GenericNameDenylist, opts.FoldCase)

	return lint.RuleDef{
		ID:          IDNoGenericName,
		Name:        "naming.meaningful",
		Group:       GroupNaming,
		Description: "Package names say what the package provides, not that it holds miscellany.",
		Severity:    core.SeverityWarning,
		ConfigKeys:  []string{"denylist"},
		Check: func(unit lint.Unit) *lint.Violation {
			if denied.has(unit.Name) {
				return lint.Violationf("package name %q is too generic", unit.Name)
			}
			return nil
		},
		Rationale:   "Grab-bag packages grow without bound and give callers no hint of what they import.",
		BadExample:  "package util",
		GoodExample: "package retry",
	}
}
