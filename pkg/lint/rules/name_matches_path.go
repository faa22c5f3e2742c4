package rules

import (
	"regexp"

	"github.com/leapstack-labs/pkglint/pkg/core"
	"github.com/leapstack-labs/pkglint/pkg/lint"
)

// IDNameMatchesPath is the ID of the name-matches-path rule.
const IDNameMatchesPath = "name-matches-path"

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

// NameMatchesPath reports packages whose name differs from the last element of
// their import path. A trailing major-version element such as v2 is skipped.
// Entry points are exempt.
func NameMatchesPath() lint.RuleDef {
	return lint.RuleDef{
		ID:          IDNameMatchesPath,
		Name:        "layout.name_matches_path",
		Group:       GroupLayout,
		Description: "A package name matches the last element of its import path.",
		Severity:    core.SeverityInfo,
		Check:       checkNameMatchesPath,
		Rationale:   "Readers guess the package name from the import path; a mismatch forces them to open the source.",
		BadExample:  "package encoding // in example.com/project/codec",
		GoodExample: "package codec // in example.com/project/codec",
	}
}

func checkNameMatchesPath(unit lint.Unit) *lint.Violation {
	if unit.IsEntryPoint {
		return nil
	}
	elem := pathElement(unit)
	if elem == "" || elem == unit.Name {
		return nil
	}
	return lint.Violationf("package name %q does not match import path element %q", unit.Name, elem)
}

// pathElement returns the element a package is expected to be named after.
func pathElement(unit lint.Unit) string {
	last := unit.LastSegment()
	if n := len(unit.ImportPathSegments); n > 1 && majorVersion.MatchString(last) {
		return unit.ImportPathSegments[n-2]
	}
	return last
}
