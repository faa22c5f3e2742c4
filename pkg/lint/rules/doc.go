// Package rules provides the built-in package convention rules.
//
// Rules are organized by group:
//   - naming: lowercase-only, no-plural-suffix, no-generic-name, entry-point-main
//   - layout: clean-import-path, name-matches-path
//   - documentation: requires-leading-doc
//
// There is no global registry. Build an explicit rule set from Options:
//
//	opts := rules.DefaultOptions()
//	opts.PluralExceptions = []string{"errors", "strings"}
//	rs, err := rules.NewRuleSet(opts)
//
// Denylist and exception matching is case-sensitive unless Options.FoldCase
// is set.
package rules
