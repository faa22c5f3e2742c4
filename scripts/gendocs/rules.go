package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/pkglint/pkg/core"
	"github.com/leapstack-labs/pkglint/pkg/lint/rules"
)

// groupDescriptions provides human-readable descriptions for rule groups.
var groupDescriptions = map[string]string{
	rules.GroupNaming:        "Rules about the package name itself.",
	rules.GroupLayout:        "Rules about the import path and directory the package lives in.",
	rules.GroupDocumentation: "Rules about package documentation.",
}

var groupOrder = []string{rules.GroupNaming, rules.GroupLayout, rules.GroupDocumentation}

// generateRuleDocs generates the rule index and one page per group.
func generateRuleDocs(outDir string) error {
	log.Printf("Generating rule docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rs, err := rules.NewRuleSet(rules.DefaultOptions())
	if err != nil {
		return err
	}
	infos := rs.Infos()

	if err := generateRulesIndex(outDir, infos); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	for _, group := range groupOrder {
		if err := generateGroupPage(outDir, group, infos); err != nil {
			return err
		}
		log.Printf("  Generated %s.md", group)
	}
	return nil
}

func generateRulesIndex(outDir string, infos []core.RuleInfo) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Rules", "Package convention rules checked by pkglint")
	w.GeneratedMarker()

	w.Header(1, "Rules")
	w.Paragraph(fmt.Sprintf("pkglint ships %d rules in %d groups.", len(infos), len(groupOrder)))

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Description"},
		[][]string{
			{InlineCode("error"), "Critical issue that should be fixed"},
			{InlineCode("warning"), "Potential issue that should be reviewed"},
			{InlineCode("info"), "Informational feedback"},
			{InlineCode("hint"), "Suggestion for improvement"},
		},
	)

	w.Header(2, "Configuration")
	w.Paragraph("Rules are configured in `pkglint.yaml`:")
	w.CodeBlock("yaml", `lint:
  disabled:
    - requires-leading-doc
  severity:
    lowercase-only: error
  fold_case: true
  rules:
    no-generic-name:
      denylist: [util, common, misc]`)

	w.Header(2, "Catalog")
	var rows [][]string
	for _, info := range infos {
		link := fmt.Sprintf("[%s](/rules/%s#%s)", InlineCode(info.ID), info.Group, info.ID)
		rows = append(rows, []string{link, info.Group, InlineCode(info.DefaultSeverity.String()), cleanDescription(info.Description)})
	}
	w.Table([]string{"Rule", "Group", "Severity", "Description"}, rows)

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

func generateGroupPage(outDir, group string, infos []core.RuleInfo) error {
	w := NewMarkdownWriter()
	title := capitalizeFirst(group) + " Rules"

	w.Frontmatter(title, groupDescriptions[group])
	w.GeneratedMarker()

	w.Header(1, title)
	w.Paragraph(groupDescriptions[group])

	for _, info := range infos {
		if info.Group == group {
			writeRuleDoc(w, info)
		}
	}

	return os.WriteFile(filepath.Join(outDir, group+".md"), w.Bytes(), 0600)
}

// capitalizeFirst capitalizes the first letter of a string.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// writeRuleDoc writes detailed documentation for a single rule.
func writeRuleDoc(w *MarkdownWriter, info core.RuleInfo) {
	// ### no-generic-name - naming.meaningful {#no-generic-name}
	w.Line(fmt.Sprintf("### %s - %s {#%s}", info.ID, info.Name, info.ID))
	w.Newline()

	w.Line(fmt.Sprintf("**Severity:** %s", InlineCode(info.DefaultSeverity.String())))
	w.Newline()

	w.Paragraph(cleanDescription(info.Description))

	if info.Rationale != "" {
		w.Header(4, "Why This Matters")
		w.Paragraph(info.Rationale)
	}

	if info.BadExample != "" {
		w.Header(4, "Bad")
		w.CodeBlock("go", info.BadExample)
	}

	if info.GoodExample != "" {
		w.Header(4, "Good")
		w.CodeBlock("go", info.GoodExample)
	}

	if len(info.ConfigKeys) > 0 {
		w.Header(4, "Configuration")
		w.Paragraph(fmt.Sprintf("This rule accepts the following configuration options: %s",
			InlineCode(strings.Join(info.ConfigKeys, ", "))))
	}

	w.Line("---")
	w.Newline()
}
