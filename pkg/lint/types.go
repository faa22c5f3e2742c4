package lint

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/pkglint/pkg/core"
)

// StructuralRuleID is the reserved rule ID carried by violations that report
// a malformed unit descriptor. No RuleDef may use it.
const StructuralRuleID = "structural"

// =============================================================================
// Units
// =============================================================================

// Unit describes one organizational unit (a Go package) to check.
// Units are built by a source-inspection collaborator and read-only to rules.
type Unit struct {
	Name               string   `json:"name" yaml:"name"`
	IsEntryPoint       bool     `json:"isEntryPoint" yaml:"isEntryPoint"`
	HasLeadingDoc      bool     `json:"hasLeadingDoc" yaml:"hasLeadingDoc"`
	ImportPathSegments []string `json:"importPathSegments" yaml:"importPathSegments"`

	// Dir is the directory the unit was discovered in, if any. Rules never read it.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// absent lists required attributes missing from a decoded descriptor.
	absent []string
}

// ImportPath joins the import path segments with "/".
func (u Unit) ImportPath() string {
	return strings.Join(u.ImportPathSegments, "/")
}

// LastSegment returns the final import path segment, or "" when there is none.
func (u Unit) LastSegment() string {
	if len(u.ImportPathSegments) == 0 {
		return ""
	}
	return u.ImportPathSegments[len(u.ImportPathSegments)-1]
}

// =============================================================================
// Rule Definitions
// =============================================================================

// CheckFunc inspects a well-formed unit and returns a violation, or nil when
// the unit conforms. It must be pure and must not panic.
//
// Only Message needs to be set on the returned violation; the Analyzer fills
// RuleID, UnitName, ImportPath and Severity.
type CheckFunc func(unit Unit) *Violation

// RuleDef is a data-driven rule definition.
// Rules are stateless - any configuration is captured when the rule is built.
type RuleDef struct {
	ID          string        // Unique identifier, e.g., "lowercase-only"
	Name        string        // Human-readable name, e.g., "naming.lowercase"
	Group       string        // Category, e.g., "naming", "layout", "documentation"
	Description string        // Human-readable description
	Severity    core.Severity // Default severity
	Check       CheckFunc     // The check function
	ConfigKeys  []string      // Configuration keys this rule accepts

	// Documentation fields for richer rule documentation
	Rationale   string // Why this rule exists
	BadExample  string // A unit showing the anti-pattern
	GoodExample string // A unit showing the convention
}

// Info extracts metadata from a rule for documentation/tooling.
func (r RuleDef) Info() core.RuleInfo {
	return core.RuleInfo{
		ID:              r.ID,
		Name:            r.Name,
		Group:           r.Group,
		Description:     r.Description,
		DefaultSeverity: r.Severity,
		ConfigKeys:      r.ConfigKeys,
		Rationale:       r.Rationale,
		BadExample:      r.BadExample,
		GoodExample:     r.GoodExample,
	}
}

// =============================================================================
// Violations
// =============================================================================

// Violation represents one failed check of one unit against one rule.
type Violation struct {
	RuleID     string        `json:"ruleId"`
	UnitName   string        `json:"unitName"`
	Message    string        `json:"message"`
	Severity   core.Severity `json:"severity"`
	ImportPath string        `json:"importPath,omitempty"`
}

// Violationf is a convenience for CheckFunc implementations.
func Violationf(format string, args ...any) *Violation {
	return &Violation{Message: fmt.Sprintf(format, args...)}
}
