package rules

import (
	"github.com/leapstack-labs/pkglint/pkg/core"
	"github.com/leapstack-labs/pkglint/pkg/lint"
)

// IDCleanImportPath is the ID of the clean-import-path rule.
const IDCleanImportPath = "clean-import-path"

// CleanImportPath rejects import paths containing a segment from
// opts.ImportPathDenylist. Only the first offending segment is reported.
func CleanImportPath(opts Options) lint.RuleDef {
	denied := newNameSet(opts.ImportPathDenylist, opts.FoldCase)

	return lint.RuleDef{
		ID:          IDCleanImportPath,
		Name:        "layout.clean_path",
		Group:       GroupLayout,
		Description: "Import paths carry no layout-only segments such as src or pkg.",
		Severity:    core.SeverityWarning,
		ConfigKeys:  []string{"denylist"},
		Check: func(unit lint.Unit) *lint.Violation {
			for i, seg := range unit.ImportPathSegments {
				if denied.has(seg) {
					return lint.Violationf("import path %q contains segment %q at position %d", unit.ImportPath(), seg, i)
				}
			}
			return nil
		},
		Rationale:   "Every importer repeats the path; segments that only mirror a directory layout add noise.",
		BadExample:  "example.com/project/src/server",
		GoodExample: "example.com/project/server",
	}
}
