package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/pkglint/internal/cli"
	"github.com/leapstack-labs/pkglint/internal/cli/commands"
	"github.com/leapstack-labs/pkglint/internal/cli/config"
	"github.com/leapstack-labs/pkglint/pkg/core"
	"github.com/leapstack-labs/pkglint/pkg/lint/rules"
)

// ruleFlags take rule IDs as values; their docs link every accepted ID.
var ruleFlags = map[string]bool{"rule": true, "disable": true}

// envDescriptions describes the settings listed by config.ScalarKeys.
var envDescriptions = map[string]string{
	"output":         "Output format: auto, text, markdown or json",
	"verbose":        "Enable debug logging",
	"state_path":     "Run history database path",
	"lint.fold_case": "Case-insensitive denylist and exception matching",
}

// cliDocs renders the command tree of one root command.
type cliDocs struct {
	root  *cobra.Command
	rules []core.RuleInfo
}

// generateCLIDocs writes an index page plus one page per visible command,
// subcommands included (history show is history-show.md).
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rs, err := rules.NewRuleSet(rules.DefaultOptions())
	if err != nil {
		return err
	}
	d := &cliDocs{root: cli.NewRootCmd(), rules: rs.Infos()}

	if err := os.WriteFile(filepath.Join(outDir, "index.md"), d.index(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	var walk func(*cobra.Command) error
	walk = func(parent *cobra.Command) error {
		for _, cmd := range visibleCommands(parent) {
			name := pageName(cmd)
			if err := os.WriteFile(filepath.Join(outDir, name+".md"), d.commandPage(cmd), 0600); err != nil {
				return fmt.Errorf("failed to generate page for %s: %w", cmd.CommandPath(), err)
			}
			log.Printf("  Generated %s.md", name)
			if err := walk(cmd); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(d.root)
}

func visibleCommands(parent *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range parent.Commands() {
		if cmd.Hidden || cmd.Name() == "help" || cmd.Name() == cobra.ShellCompRequestCmd {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

// pageName maps "pkglint history show" to "history-show".
func pageName(cmd *cobra.Command) string {
	path := strings.Fields(cmd.CommandPath())
	return strings.Join(path[1:], "-")
}

func (d *cliDocs) index() []byte {
	w := NewMarkdownWriter()

	w.Frontmatter("CLI Reference", "Command-line interface reference for "+d.root.Name())
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(d.root.Long)

	w.Header(2, "Installation")
	w.CodeBlock("bash", "go install github.com/leapstack-labs/pkglint/cmd/pkglint@latest")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range visibleCommands(d.root) {
		link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), pageName(cmd))
		rows = append(rows, []string{link, cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	d.flagsTable(w, d.root.PersistentFlags())

	w.Header(2, "Configuration")
	w.Paragraph(fmt.Sprintf("Settings are read from %s (searched upward from the working directory), "+
		"then from environment variables, then from flags. Each scalar setting maps to a variable:",
		strings.Join(wrapCode(config.ConfigFileNames), " or ")))
	var envRows [][]string
	for _, key := range config.ScalarKeys() {
		envRows = append(envRows, []string{InlineCode(config.EnvVar(key)), InlineCode(key), envDescriptions[key]})
	}
	w.Table([]string{"Variable", "Key", "Description"}, envRows)

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "No violations at or above the severity threshold"},
		{InlineCode("1"), fmt.Sprintf("%s (violations at or above %s), or any other error reported on stderr",
			InlineCode(commands.ErrIssuesFound.Error()), InlineCode("--severity"))},
	})

	return w.Bytes()
}

func (d *cliDocs) commandPage(cmd *cobra.Command) []byte {
	w := NewMarkdownWriter()

	w.Frontmatter(cmd.CommandPath(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.CommandPath())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	if cmd.HasAvailableSubCommands() && !cmd.Runnable() {
		w.CodeBlock("bash", cmd.CommandPath()+" <subcommand> [options]")
	} else {
		w.CodeBlock("bash", cmd.UseLine())
	}

	if subs := visibleCommands(cmd); len(subs) > 0 {
		w.Header(2, "Subcommands")
		var rows [][]string
		for _, sub := range subs {
			link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(sub.Name()), pageName(sub))
			rows = append(rows, []string{link, cleanDescription(sub.Short)})
		}
		w.Table([]string{"Subcommand", "Description"}, rows)
	}

	if cmd.HasAvailableLocalFlags() {
		w.Header(2, "Options")
		d.flagsTable(w, cmd.LocalFlags())
	}
	if cmd.HasAvailableInheritedFlags() {
		w.Header(2, "Global Options")
		d.flagsTable(w, cmd.InheritedFlags())
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}

	return w.Bytes()
}

func (d *cliDocs) flagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = InlineCode("-" + f.Shorthand)
		}
		def := f.DefValue
		if def != "" && def != "[]" && f.Value.Type() != "bool" {
			def = InlineCode(def)
		} else if def == "[]" {
			def = ""
		}
		desc := cleanDescription(f.Usage)
		if ruleFlags[f.Name] {
			desc += ". Rule IDs: " + strings.Join(d.ruleLinks(), ", ")
		}
		rows = append(rows, []string{InlineCode("--" + f.Name), short, def, desc})
	})
	w.Table([]string{"Option", "Short", "Default", "Description"}, rows)
}

// ruleLinks links every rule ID to its entry on the rule group page.
func (d *cliDocs) ruleLinks() []string {
	links := make([]string, 0, len(d.rules))
	for _, info := range d.rules {
		links = append(links, fmt.Sprintf("[%s](/rules/%s#%s)", InlineCode(info.ID), info.Group, info.ID))
	}
	return links
}

func wrapCode(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = InlineCode(s)
	}
	return out
}

// dedent strips the indentation shared by every non-blank line.
func dedent(text string) string {
	lines := strings.Split(strings.Trim(text, "\n"), "\n")
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	for i, line := range lines {
		if len(line) >= indent && indent > 0 {
			lines[i] = line[indent:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}
