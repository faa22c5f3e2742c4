package core

// LintConfig holds lint rule configuration as read from pkglint.yaml.
type LintConfig struct {
	// Disabled contains rule IDs to disable
	Disabled []string `koanf:"disabled"`

	// Severity maps rule IDs to severity overrides (error, warning, info, hint)
	Severity map[string]string `koanf:"severity"`

	// FoldCase switches denylist and exception matching to case-insensitive
	FoldCase bool `koanf:"fold_case"`

	// Rules maps rule IDs to rule-specific options
	Rules map[string]RuleOptions `koanf:"rules"`
}

// RuleOptions holds rule-specific configuration options.
type RuleOptions map[string]any

// IsDisabled reports whether the rule ID is listed in Disabled.
func (c *LintConfig) IsDisabled(ruleID string) bool {
	if c == nil {
		return false
	}
	for _, id := range c.Disabled {
		if id == ruleID {
			return true
		}
	}
	return false
}

// RuleOptionsFor returns the options configured for a rule, or nil.
func (c *LintConfig) RuleOptionsFor(ruleID string) RuleOptions {
	if c == nil || c.Rules == nil {
		return nil
	}
	return c.Rules[ruleID]
}
