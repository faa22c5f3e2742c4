// Package lint provides a rule-evaluation engine for package conventions.
//
// # Architecture
//
// The engine is a strict three-stage pipeline:
//
//  1. RuleSet: an ordered, immutable collection of RuleDef values with unique IDs
//  2. Analyzer: applies every enabled rule to every Unit and collects Violations
//  3. Report: sorts violations by unit name, then rule ID
//
// The built-in rule catalog lives in pkg/lint/rules. Turning real packages
// into Unit values is the job of a source-inspection collaborator such as
// internal/scan; formatting the report is left to the caller.
//
// # Usage
//
//	rs, err := rules.NewRuleSet(rules.DefaultOptions())
//	if err != nil {
//		return err // *lint.ConfigurationError
//	}
//
//	analyzer := lint.NewAnalyzer(rs, lint.NewConfig().Disable("requires-leading-doc"))
//	violations, err := analyzer.Evaluate(units)
//	if err != nil {
//		return err
//	}
//	for _, v := range lint.Report(violations) {
//		fmt.Printf("%s\t%s\t%s\n", v.UnitName, v.RuleID, v.Message)
//	}
//
// # Errors
//
// A *ConfigurationError (duplicate rule IDs, bad option values) fails the
// whole evaluation before any rule runs. A malformed unit never fails the
// call: it is reported as a single violation with rule ID "structural".
//
// # Creating Custom Rules
//
// A rule is a pure function wrapped in a RuleDef:
//
//	var NoDigits = lint.RuleDef{
//		ID:          "no-digits",
//		Name:        "naming.no_digits",
//		Group:       "naming",
//		Description: "Package names should not contain digits",
//		Severity:    core.SeverityWarning,
//		Check: func(u lint.Unit) *lint.Violation {
//			if strings.ContainsAny(u.Name, "0123456789") {
//				return lint.Violationf("package name %q contains digits", u.Name)
//			}
//			return nil
//		},
//	}
package lint
