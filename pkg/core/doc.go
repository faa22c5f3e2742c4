// Package core defines the shared language of the pkglint system.
//
// This package contains:
//   - Severity levels and parsing
//   - Rule metadata (RuleInfo) used by tooling and documentation
//   - Configuration types shared by the CLI and the rule catalog (LintConfig)
//
// The Golden Rule: pkg/core imports ONLY the standard library.
// All other packages depend on core, not the reverse.
package core
