package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pkglint/internal/cli/config"
	"github.com/leapstack-labs/pkglint/internal/cli/output"
	"github.com/leapstack-labs/pkglint/pkg/core"
	"github.com/leapstack-labs/pkglint/pkg/lint/rules"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group   string // Filter by group
	Verbose bool   // Show full documentation
	Format  string // Output format
}

// RuleEntry is a rule's documentation plus whether the project enables it.
type RuleEntry struct {
	core.RuleInfo
	Enabled bool `json:"enabled"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available lint rules",
		Long: `List all available lint rules with their documentation.

Rules are organized by group (naming, layout, documentation).
Use --verbose to see rationale and configuration keys.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all rules
  pkglint rules

  # Show details for a specific rule
  pkglint rules no-generic-name

  # List rules in the naming group
  pkglint rules --group naming

  # Output as JSON
  pkglint rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return completeRuleIDs(nil, nil, "")
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show full documentation")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	_ = cmd.RegisterFlagCompletionFunc("group", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{rules.GroupNaming, rules.GroupLayout, rules.GroupDocumentation}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// catalog returns every rule in catalog order, marked with the project's
// enablement.
func catalog(cfg *config.Config) ([]RuleEntry, error) {
	rs, err := rules.NewRuleSet(rules.DefaultOptions())
	if err != nil {
		return nil, err
	}
	section := cfg.LintSection()

	infos := rs.Infos()
	entries := make([]RuleEntry, 0, len(infos))
	for _, info := range infos {
		if sev, ok := section.Severity[info.ID]; ok {
			if s, ok := core.ParseSeverity(sev); ok {
				info.DefaultSeverity = s
			}
		}
		entries = append(entries, RuleEntry{
			RuleInfo: info,
			Enabled:  !section.IsDisabled(info.ID),
		})
	}
	return entries, nil
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer

	entries, err := catalog(cmdCtx.Cfg)
	if err != nil {
		return err
	}
	entries = filterRulesByGroup(entries, opts.Group)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return listRulesJSON(r, entries)
	case output.ModeMarkdown:
		return listRulesMarkdown(r, entries, opts.Verbose)
	default:
		return listRulesText(r, entries, opts.Verbose)
	}
}

func filterRulesByGroup(entries []RuleEntry, group string) []RuleEntry {
	if group == "" {
		return entries
	}

	var filtered []RuleEntry
	for _, e := range entries {
		if e.Group == group {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func showRule(cmd *cobra.Command, ruleID string, opts *RulesOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer

	entries, err := catalog(cmdCtx.Cfg)
	if err != nil {
		return err
	}

	var rule *RuleEntry
	for i := range entries {
		if entries[i].ID == ruleID {
			rule = &entries[i]
			break
		}
	}
	if rule == nil {
		return fmt.Errorf("rule %q not found", ruleID)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(rule)
	case output.ModeMarkdown:
		showRuleMarkdown(r, rule)
	default:
		showRuleText(r, rule)
	}
	return nil
}

func rulesTable(entries []RuleEntry, verbose bool, severity func(core.Severity) string) table.Writer {
	t := table.NewWriter()
	header := table.Row{"ID", "Group", "Severity", "Enabled", "Description"}
	if verbose {
		header = append(header, "Options")
	}
	t.AppendHeader(header)

	for _, e := range entries {
		enabled := "yes"
		if !e.Enabled {
			enabled = "no"
		}
		row := table.Row{e.ID, e.Group, severity(e.DefaultSeverity), enabled, e.Description}
		if verbose {
			row = append(row, strings.Join(e.ConfigKeys, ", "))
		}
		t.AppendRow(row)
	}
	return t
}

// listRulesText outputs rules as a styled table.
func listRulesText(r *output.Renderer, entries []RuleEntry, verbose bool) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Lint Rules (%d)", len(entries))))
	r.Println("")

	t := rulesTable(entries, verbose, func(sev core.Severity) string {
		return styles.Severity(sev).Render(sev.String())
	})
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.Render()

	if verbose {
		for _, e := range entries {
			if e.Rationale == "" {
				continue
			}
			r.Println("")
			r.Println(styles.Bold.Render(e.ID))
			r.Println(styles.Muted.Render("  Why: " + truncateOneLine(e.Rationale, 100)))
		}
	}

	r.Println("")
	r.Println(styles.Muted.Render("Use 'pkglint rules <rule-id>' for detailed documentation"))
	r.Println("")

	return nil
}

// listRulesMarkdown outputs rules as a markdown table.
func listRulesMarkdown(r *output.Renderer, entries []RuleEntry, verbose bool) error {
	r.Println("# Lint Rules")
	r.Println("")

	t := rulesTable(entries, verbose, func(sev core.Severity) string {
		return "`" + sev.String() + "`"
	})
	t.SetOutputMirror(r.Writer())
	t.RenderMarkdown()

	if verbose {
		for _, e := range entries {
			if e.Rationale == "" {
				continue
			}
			r.Println("")
			r.Printf("- **%s**: %s\n", e.ID, e.Rationale)
		}
	}

	r.Println("")
	return nil
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []RuleEntry `json:"rules"`
	Count struct {
		Groups map[string]int `json:"groups"`
		Total  int            `json:"total"`
	} `json:"count"`
}

// listRulesJSON outputs rules in JSON format.
func listRulesJSON(r *output.Renderer, entries []RuleEntry) error {
	jsonOutput := RulesJSONOutput{
		Rules: entries,
	}
	if jsonOutput.Rules == nil {
		jsonOutput.Rules = []RuleEntry{}
	}

	jsonOutput.Count.Groups = make(map[string]int)
	for _, e := range entries {
		jsonOutput.Count.Groups[e.Group]++
	}
	jsonOutput.Count.Total = len(entries)

	return r.JSON(jsonOutput)
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, rule *RuleEntry) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), rule.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), styles.Severity(rule.DefaultSeverity).Render(rule.DefaultSeverity.String()))
	if !rule.Enabled {
		r.Printf("  %s: %s\n", styles.Bold.Render("Status"), styles.Muted.Render("disabled in configuration"))
	}
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println(styles.Bold.Render("Bad Example"))
		for _, line := range strings.Split(rule.BadExample, "\n") {
			r.Println(styles.Muted.Render("  " + line))
		}
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println(styles.Bold.Render("Good Example"))
		for _, line := range strings.Split(rule.GoodExample, "\n") {
			r.Println(styles.Success.Render("  " + line))
		}
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println(styles.Bold.Render("Configuration"))
		r.Printf("  Options: %s\n", strings.Join(rule.ConfigKeys, ", "))
		r.Println("")
	}
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, rule *RuleEntry) {
	r.Printf("# %s - %s\n\n", rule.ID, rule.Name)
	r.Printf("**Group:** %s | **Severity:** `%s`", rule.Group, rule.DefaultSeverity.String())
	if !rule.Enabled {
		r.Printf(" | **Status:** disabled")
	}
	r.Println("")
	r.Println("")
	r.Println(rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println("## Why This Matters")
		r.Println("")
		r.Println(rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println("## Bad Example")
		r.Println("")
		r.Println("```go")
		r.Println(rule.BadExample)
		r.Println("```")
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println("## Good Example")
		r.Println("")
		r.Println("```go")
		r.Println(rule.GoodExample)
		r.Println("```")
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println("## Configuration")
		r.Println("")
		r.Printf("Options: `%s`\n", strings.Join(rule.ConfigKeys, "`, `"))
		r.Println("")
	}
}

func truncateOneLine(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
