package rules

import (
	"github.com/leapstack-labs/pkglint/pkg/core"
	"github.com/leapstack-labs/pkglint/pkg/lint"
)

// IDEntryPointMain is the ID of the entry-point-main rule.
const IDEntryPointMain = "entry-point-main"

// EntryPointMain rejects entry points whose package is not named main.
func EntryPointMain() lint.RuleDef {
	return lint.RuleDef{
		ID:          IDEntryPointMain,
		Name:        "naming.entry_point",
		Group:       GroupNaming,
		Description: "Executable entry points are package main.",
		Severity:    core.SeverityError,
		Check: func(unit lint.Unit) *lint.Violation {
			if unit.IsEntryPoint && unit.Name != "main" {
				return lint.Violationf("entry point %q is package %q, want main", unit.ImportPath(), unit.Name)
			}
			return nil
		},
		Rationale:   "The toolchain only builds binaries from package main.",
		BadExample:  "package server // in cmd/server",
		GoodExample: "package main // in cmd/server",
	}
}
