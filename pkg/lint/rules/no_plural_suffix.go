package rules

import (
	"github.com/leapstack-labs/pkglint/pkg/core"
	"github.com/leapstack-labs/pkglint/pkg/lint"
)

// IDNoPluralSuffix is the ID of the no-plural-suffix rule.
const IDNoPluralSuffix = "no-plural-suffix"

// NoPluralSuffix rejects plural package names unless they are listed in
// opts.PluralExceptions.
func NoPluralSuffix(opts Options) lint.RuleDef {
	exceptions := newNameSet(opts.PluralExceptions, opts.FoldCase)
	suffixes := append([]string(nil), opts.PluralSuffixes...)
	fold := opts.FoldCase

	return lint.RuleDef{
		ID:          IDNoPluralSuffix,
		Name:        "naming.singular",
		Group:       GroupNaming,
		Description: "Package names are singular.",
		Severity:    core.SeverityWarning,
		ConfigKeys:  []string{"exceptions", "suffixes"},
		Check: func(unit lint.Unit) *lint.Violation {
			if exceptions.has(unit.Name) {
				return nil
			}
			if suffix, ok := suffixOf(unit.Name, suffixes, fold); ok {
				return lint.Violationf("package name %q ends with plural suffix %q", unit.Name, suffix)
			}
			return nil
		},
		Rationale:   "Callers write httputil.Client, not httputils.Client; the package is a namespace, not a collection.",
		BadExample:  "package models",
		GoodExample: "package model",
	}
}
