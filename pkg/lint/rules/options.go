package rules

import (
	"fmt"
	"maps"
	"slices"

	"github.com/leapstack-labs/pkglint/pkg/core"
	"github.com/leapstack-labs/pkglint/pkg/lint"
)

// Options configures the built-in rules.
type Options struct {
	// PluralExceptions are names no-plural-suffix accepts despite their suffix.
	PluralExceptions []string
	// PluralSuffixes are the endings no-plural-suffix treats as plural.
	PluralSuffixes []string
	// GenericNameDenylist are names no-generic-name rejects.
	GenericNameDenylist []string
	// ImportPathDenylist are segments clean-import-path rejects.
	ImportPathDenylist []string
	// FoldCase makes denylist and exception matching case-insensitive.
	FoldCase bool
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		PluralExceptions:    []string{},
		PluralSuffixes:      []string{"s"},
		GenericNameDenylist: []string{"common", "util", "utils", "models", "types"},
		ImportPathDenylist:  []string{"src", "pkg", "gosrc"},
	}
}

// Validate rejects option values that would make a rule meaningless.
func (o Options) Validate() error {
	checks := []struct {
		ruleID string
		key    string
		values []string
	}{
		{IDNoPluralSuffix, "exceptions", o.PluralExceptions},
		{IDNoPluralSuffix, "suffixes", o.PluralSuffixes},
		{IDNoGenericName, "denylist", o.GenericNameDenylist},
		{IDCleanImportPath, "denylist", o.ImportPathDenylist},
	}
	for _, c := range checks {
		for i, v := range c.values {
			if v == "" {
				return &lint.ConfigurationError{
					RuleID: c.ruleID,
					Key:    c.key,
					Err:    fmt.Errorf("%w: entry %d is empty", lint.ErrInvalidOption, i),
				}
			}
		}
	}
	return nil
}

type pluralOptions struct {
	Exceptions *[]string `mapstructure:"exceptions"`
	Suffixes   *[]string `mapstructure:"suffixes"`
}

type denylistOptions struct {
	Denylist *[]string `mapstructure:"denylist"`
}

// FromConfig overlays the lint section of the configuration file on
// DefaultOptions. Options for unknown rules, unknown keys and values of the
// wrong type yield a *lint.ConfigurationError.
func FromConfig(cfg *core.LintConfig) (Options, error) {
	opts := DefaultOptions()
	if cfg == nil {
		return opts, nil
	}
	opts.FoldCase = cfg.FoldCase

	for _, ruleID := range slices.Sorted(maps.Keys(cfg.Rules)) {
		switch ruleID {
		case IDNoPluralSuffix, IDNoGenericName, IDCleanImportPath:
			continue
		}
		if len(cfg.Rules[ruleID]) > 0 {
			return Options{}, &lint.ConfigurationError{
				RuleID: ruleID,
				Err:    fmt.Errorf("%w: rule accepts no options", lint.ErrInvalidOption),
			}
		}
	}

	var p pluralOptions
	if err := lint.DecodeOptions(IDNoPluralSuffix, cfg.RuleOptionsFor(IDNoPluralSuffix), &p); err != nil {
		return Options{}, err
	}
	if p.Exceptions != nil {
		opts.PluralExceptions = *p.Exceptions
	}
	if p.Suffixes != nil {
		opts.PluralSuffixes = *p.Suffixes
	}

	var generic denylistOptions
	if err := lint.DecodeOptions(IDNoGenericName, cfg.RuleOptionsFor(IDNoGenericName), &generic); err != nil {
		return Options{}, err
	}
	if generic.Denylist != nil {
		opts.GenericNameDenylist = *generic.Denylist
	}

	var paths denylistOptions
	if err := lint.DecodeOptions(IDCleanImportPath, cfg.RuleOptionsFor(IDCleanImportPath), &paths); err != nil {
		return Options{}, err
	}
	if paths.Denylist != nil {
		opts.ImportPathDenylist = *paths.Denylist
	}

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}
