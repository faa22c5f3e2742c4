package lint

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel causes wrapped by ConfigurationError.
var (
	ErrNilRuleSet      = errors.New("rule set is nil")
	ErrEmptyRuleID     = errors.New("rule id is empty")
	ErrDuplicateRuleID = errors.New("duplicate rule id")
	ErrReservedRuleID  = errors.New("rule id is reserved")
	ErrNilCheck        = errors.New("rule has no check function")
	ErrInvalidOption   = errors.New("invalid rule option")
	ErrUnknownRule     = errors.New("unknown rule id")
)

// ConfigurationError reports a caller bug in the rule set or its options.
// It fails an entire evaluation before any rule runs.
type ConfigurationError struct {
	RuleID string // offending rule, if known
	Key    string // offending option key, if any
	Err    error
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("lint configuration")
	if e.RuleID != "" {
		fmt.Fprintf(&b, " (rule %q", e.RuleID)
		if e.Key != "" {
			fmt.Fprintf(&b, ", option %q", e.Key)
		}
		b.WriteString(")")
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// MalformedInputError reports a unit descriptor that cannot be checked.
// The Analyzer recovers it into a single structural violation.
type MalformedInputError struct {
	UnitName string
	Problems []string
}

func (e *MalformedInputError) Error() string {
	name := e.UnitName
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Sprintf("malformed unit %s: %s", name, strings.Join(e.Problems, "; "))
}
