package config

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/pkglint/pkg/core"
)

// OutputModes lists the accepted values of the output setting.
var OutputModes = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
// Rule option contents are checked later, when the rule set is built.
func (c *Config) Validate() error {
	if !slices.Contains(OutputModes, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (valid: auto, text, markdown, json)", c.OutputFormat)
	}

	if c.StatePath == "" {
		return fmt.Errorf("state_path must not be empty")
	}

	if c.Lint != nil {
		for ruleID, sev := range c.Lint.Severity {
			if _, ok := core.ParseSeverity(sev); !ok {
				return fmt.Errorf("lint.severity.%s: invalid severity %q (valid: error, warning, info, hint)", ruleID, sev)
			}
		}
	}
	return nil
}
