package rules

import (
	"github.com/leapstack-labs/pkglint/pkg/lint"
)

// Rule groups.
const (
	GroupNaming        = "naming"
	GroupLayout        = "layout"
	GroupDocumentation = "documentation"
)

// All returns every built-in rule configured with opts, in catalog order.
func All(opts Options) []lint.RuleDef {
	return []lint.RuleDef{
		LowercaseOnly(),
		NoPluralSuffix(opts),
		NoGenericName(opts),
		EntryPointMain(),
		CleanImportPath(opts),
		NameMatchesPath(),
		RequiresLeadingDoc(),
	}
}

// NewRuleSet validates opts and returns the built-in catalog as a RuleSet.
func NewRuleSet(opts Options) (*lint.RuleSet, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return lint.NewRuleSet(All(opts)...)
}
