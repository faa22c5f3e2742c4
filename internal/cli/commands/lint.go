package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pkglint/internal/cli/config"
	"github.com/leapstack-labs/pkglint/internal/cli/output"
	"github.com/leapstack-labs/pkglint/internal/scan"
	"github.com/leapstack-labs/pkglint/internal/state"
	"github.com/leapstack-labs/pkglint/internal/unitio"
	"github.com/leapstack-labs/pkglint/internal/watch"
	"github.com/leapstack-labs/pkglint/pkg/core"
	"github.com/leapstack-labs/pkglint/pkg/lint"
	"github.com/leapstack-labs/pkglint/pkg/lint/rules"
)

// ErrIssuesFound is returned when violations at or above the severity
// threshold were reported. It makes the process exit non-zero.
var ErrIssuesFound = errors.New("lint issues found")

// LintOptions holds options for the lint command.
type LintOptions struct {
	Format      string   // Output format: text, markdown, json
	Disable     []string // Rule IDs to disable
	Severity    string   // Minimum severity: error, warning, info, hint
	Rules       []string // Run only specific rules
	Concurrency int      // Units checked in parallel
	FoldCase    bool     // Case-insensitive denylist matching
	Parse       bool     // Walk directories with go/parser instead of go/packages
	Units       string   // Descriptor file to read instead of scanning
	Watch       bool     // Re-run on file changes
	Record      bool     // Store the run in the history database
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [patterns...]",
		Short: "Check Go packages against naming and layout conventions",
		Long: `Check Go packages against package conventions.

Packages are loaded with go/packages (default pattern ./...). With --parse,
the directory tree is walked with go/parser instead, which needs no Go
toolchain and also works on code that does not type-check. With --units,
package descriptors are read from a JSON or YAML file ("-" for stdin).

Rules can be configured in pkglint.yaml.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Lint every package in the module
  pkglint lint

  # Lint a subtree without loading type information
  pkglint lint --parse ./internal

  # Lint descriptors produced by another tool
  pkglint lint --units units.json

  # Disable specific rules
  pkglint lint --disable requires-leading-doc,name-matches-path

  # Only report errors
  pkglint lint --severity error

  # Re-run on every change and keep a history
  pkglint lint --watch --record`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringVar(&opts.Severity, "severity", "warning", "Minimum severity: error, warning, info, hint")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
	cmd.Flags().IntVarP(&opts.Concurrency, "concurrency", "j", runtime.GOMAXPROCS(0), "Packages checked in parallel")
	cmd.Flags().BoolVar(&opts.FoldCase, "fold-case", false, "Match denylists and exceptions case-insensitively")
	cmd.Flags().BoolVar(&opts.Parse, "parse", false, "Walk a directory with go/parser instead of loading packages")
	cmd.Flags().StringVar(&opts.Units, "units", "", "Read package descriptors from a JSON or YAML file")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run when Go files or configuration change")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "Record the run in the history database")

	_ = cmd.RegisterFlagCompletionFunc("severity", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"error", "warning", "info", "hint"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("rule", completeRuleIDs)
	_ = cmd.RegisterFlagCompletionFunc("disable", completeRuleIDs)

	return cmd
}

func completeRuleIDs(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	rs, err := rules.NewRuleSet(rules.DefaultOptions())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return rs.IDs(), cobra.ShellCompDirectiveNoFileComp
}

// linter is everything needed to run one evaluation.
type linter struct {
	analyzer  *lint.Analyzer
	threshold core.Severity
}

func newLinter(cfg *config.Config, opts *LintOptions, logger *slog.Logger) (*linter, error) {
	threshold, ok := core.ParseSeverity(opts.Severity)
	if !ok {
		return nil, fmt.Errorf("invalid severity %q: want error, warning, info or hint", opts.Severity)
	}

	ruleOpts, err := rules.FromConfig(cfg.LintSection())
	if err != nil {
		return nil, err
	}
	if opts.FoldCase {
		ruleOpts.FoldCase = true
	}

	rs, err := rules.NewRuleSet(ruleOpts)
	if err != nil {
		return nil, err
	}

	lintCfg, err := buildLintConfig(cfg, opts, rs)
	if err != nil {
		return nil, err
	}

	analyzer := lint.NewAnalyzer(rs, lintCfg).
		WithLogger(logger).
		WithConcurrency(opts.Concurrency)

	return &linter{analyzer: analyzer, threshold: threshold}, nil
}

// buildLintConfig merges the lint section of the config file with CLI flags.
// Flags take precedence. Every rule ID mentioned must exist in rs.
func buildLintConfig(cfg *config.Config, opts *LintOptions, rs *lint.RuleSet) (*lint.Config, error) {
	lintCfg := lint.NewConfig()

	known := func(id, where string) error {
		if _, ok := rs.Get(id); !ok {
			return &lint.ConfigurationError{
				RuleID: id,
				Err:    fmt.Errorf("%w in %s", lint.ErrUnknownRule, where),
			}
		}
		return nil
	}

	// Apply project config first (lower precedence)
	section := cfg.LintSection()
	for _, id := range section.Disabled {
		id = strings.TrimSpace(id)
		if err := known(id, "lint.disabled"); err != nil {
			return nil, err
		}
		lintCfg.Disable(id)
	}
	for id, sev := range section.Severity {
		if err := known(id, "lint.severity"); err != nil {
			return nil, err
		}
		s, ok := core.ParseSeverity(sev)
		if !ok {
			return nil, &lint.ConfigurationError{
				RuleID: id,
				Err:    fmt.Errorf("%w: severity %q", lint.ErrInvalidOption, sev),
			}
		}
		lintCfg.SetSeverity(id, s)
	}

	// Apply CLI overrides (higher precedence)
	for _, id := range opts.Disable {
		id = strings.TrimSpace(id)
		if err := known(id, "--disable"); err != nil {
			return nil, err
		}
		lintCfg.Disable(id)
	}

	// If --rule specified, disable all others
	if len(opts.Rules) > 0 {
		enabledSet := make(map[string]bool)
		for _, id := range opts.Rules {
			id = strings.TrimSpace(id)
			if err := known(id, "--rule"); err != nil {
				return nil, err
			}
			enabledSet[id] = true
		}
		for _, id := range rs.IDs() {
			if !enabledSet[id] {
				lintCfg.Disable(id)
			}
		}
	}

	return lintCfg, nil
}

func runLint(cmd *cobra.Command, opts *LintOptions, args []string) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)

	if opts.Units != "" && len(args) > 0 {
		return fmt.Errorf("--units cannot be combined with package patterns")
	}
	if opts.Units != "" && opts.Watch {
		return fmt.Errorf("--watch cannot be combined with --units")
	}
	if opts.Parse && len(args) > 1 {
		return fmt.Errorf("--parse takes a single directory, got %d arguments", len(args))
	}

	l, err := newLinter(cmdCtx.Cfg, opts, cmdCtx.Logger)
	if err != nil {
		return err
	}

	if opts.Watch {
		return watchLint(cmd, cmdCtx, l, opts, args)
	}

	hasIssues, err := lintOnce(cmd.Context(), cmd, cmdCtx, l, opts, args)
	if err != nil {
		return err
	}
	if hasIssues {
		return ErrIssuesFound
	}
	return nil
}

// lintOnce loads units, evaluates them and renders the result. It reports
// whether any violation met the severity threshold.
func lintOnce(ctx context.Context, cmd *cobra.Command, cmdCtx *CommandContext, l *linter, opts *LintOptions, args []string) (bool, error) {
	started := time.Now()

	units, source, err := loadUnits(ctx, cmdCtx, opts, args)
	if err != nil {
		return false, err
	}

	violations, err := l.analyzer.Evaluate(units)
	if err != nil {
		return false, err
	}
	cmdCtx.Logger.Debug("evaluated units",
		slog.Int("units", len(units)),
		slog.Int("violations", len(violations)),
		slog.Duration("elapsed", time.Since(started)))

	if opts.Record {
		if err := recordRun(cmd, cmdCtx, state.RunInput{
			StartedAt:  started,
			Duration:   time.Since(started),
			Source:     source,
			Units:      len(units),
			Violations: violations,
		}); err != nil {
			return false, err
		}
	}

	shown := lint.FilterBySeverity(violations, l.threshold)
	if err := renderLintResults(cmdCtx.Renderer, len(units), shown); err != nil {
		return false, err
	}
	return len(shown) > 0, nil
}

// loadUnits returns the units to check and a description of where they came from.
func loadUnits(ctx context.Context, cmdCtx *CommandContext, opts *LintOptions, args []string) ([]lint.Unit, string, error) {
	switch {
	case opts.Units != "":
		units, err := unitio.ReadFile(opts.Units)
		if err != nil {
			return nil, "", err
		}
		return units, opts.Units, nil

	case opts.Parse:
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		units, err := scan.ParseDir(ctx, scan.Options{Dir: dir, Logger: cmdCtx.Logger})
		if err != nil {
			return nil, "", err
		}
		return units, dir, nil

	default:
		patterns := args
		if len(patterns) == 0 {
			patterns = []string{"./..."}
		}
		units, err := scan.Packages(ctx, scan.Options{Logger: cmdCtx.Logger}, patterns...)
		if err != nil {
			return nil, "", err
		}
		return units, strings.Join(patterns, " "), nil
	}
}

func recordRun(cmd *cobra.Command, cmdCtx *CommandContext, in state.RunInput) error {
	store, err := cmdCtx.OpenStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	run, err := store.RecordRun(cmd.Context(), in)
	if err != nil {
		return err
	}
	cmdCtx.Logger.Info("recorded run", slog.String("id", run.ID), slog.Int("violations", run.Total()))
	return nil
}

// watchLint lints once, then again after every relevant change until the
// command context is cancelled. Lint failures are reported, not returned.
func watchLint(cmd *cobra.Command, cmdCtx *CommandContext, l *linter, opts *LintOptions, args []string) error {
	ctx := cmd.Context()
	r := cmdCtx.Renderer

	root := cmdCtx.Cfg.ProjectRoot
	if opts.Parse && len(args) == 1 {
		root = args[0]
	}
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	run := func() {
		if _, err := lintOnce(ctx, cmd, cmdCtx, l, opts, args); err != nil && ctx.Err() == nil {
			r.Error(err.Error())
		}
	}

	run()
	r.Println(r.Muted(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", abs)))

	w := &watch.Watcher{
		Root:   abs,
		Logger: cmdCtx.Logger,
		OnChange: func(_ context.Context, path string) {
			if isConfigFile(path) {
				reloaded, err := reloadLinter(cmd, opts)
				if err != nil {
					r.Error(fmt.Sprintf("keeping previous configuration: %v", err))
				} else {
					l = reloaded
				}
			}
			r.Println("")
			r.Println(r.Muted("Change detected: " + path))
			run()
		},
	}
	return w.Run(ctx)
}

func isConfigFile(path string) bool {
	base := filepath.Base(path)
	for _, name := range config.ConfigFileNames {
		if base == name {
			return true
		}
	}
	return false
}

// reloadLinter re-reads configuration after the config file changed.
func reloadLinter(cmd *cobra.Command, opts *LintOptions) (*linter, error) {
	flags := cmd.Root().PersistentFlags()
	cfgFile, _ := flags.GetString("config")
	cfg, err := config.LoadConfig(cfgFile, flags)
	if err != nil {
		return nil, err
	}
	return newLinter(cfg, opts, config.GetLogger(cmd.Context()))
}

func renderLintResults(r *output.Renderer, unitsChecked int, violations []lint.Violation) error {
	mode := r.EffectiveMode()

	if mode == output.ModeJSON {
		return r.JSON(output.NewLintOutput(unitsChecked, violations))
	}

	if len(violations) == 0 {
		r.Success(fmt.Sprintf("No lint issues found in %d packages", unitsChecked))
		return nil
	}

	if mode == output.ModeMarkdown {
		renderLintMarkdown(r, violations)
	} else {
		renderLintText(r, violations)
	}

	summary := lint.Summarize(violations)
	summaryParts := []string{fmt.Sprintf("%d issues", summary.TotalIssues)}
	if summary.Errors > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d errors", summary.Errors))
	}
	if summary.Warnings > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d warnings", summary.Warnings))
	}
	if summary.Info > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d info", summary.Info))
	}
	if summary.Hints > 0 {
		summaryParts = append(summaryParts, fmt.Sprintf("%d hints", summary.Hints))
	}
	r.Printf("Summary: %s in %d of %d packages\n", strings.Join(summaryParts, ", "), summary.Units, unitsChecked)
	return nil
}

// unitGroup holds the violations of one unit, keyed by name and import path.
type unitGroup struct {
	name       string
	importPath string
	violations []lint.Violation
}

// groupByUnit buckets violations per unit in first-appearance order. Units
// sharing a name but not an import path get separate groups even though the
// report interleaves them by rule ID.
func groupByUnit(violations []lint.Violation) []*unitGroup {
	type key struct{ name, importPath string }
	index := make(map[key]*unitGroup)
	var groups []*unitGroup
	for _, v := range violations {
		k := key{v.UnitName, v.ImportPath}
		g, ok := index[k]
		if !ok {
			g = &unitGroup{name: v.UnitName, importPath: v.ImportPath}
			index[k] = g
			groups = append(groups, g)
		}
		g.violations = append(g.violations, v)
	}
	return groups
}

func renderLintText(r *output.Renderer, violations []lint.Violation) {
	styles := r.Styles()
	for i, g := range groupByUnit(violations) {
		if i > 0 {
			r.Println("")
		}
		header := styles.UnitPath.Render(g.name)
		if g.importPath != "" {
			header += "  " + styles.Muted.Render(g.importPath)
		}
		r.Println(header)
		for _, v := range g.violations {
			r.Printf("  %s  %s  %s\n",
				styles.Severity(v.Severity).Render(fmt.Sprintf("%-7s", v.Severity)),
				styles.RuleID.Render(fmt.Sprintf("%-20s", v.RuleID)),
				v.Message,
			)
		}
	}
	r.Println("")
}

func renderLintMarkdown(r *output.Renderer, violations []lint.Violation) {
	r.Println("# Lint Results")
	r.Println("")
	for i, g := range groupByUnit(violations) {
		if i > 0 {
			r.Println("")
		}
		if g.importPath != "" {
			r.Printf("## `%s` (%s)\n\n", g.name, g.importPath)
		} else {
			r.Printf("## `%s`\n\n", g.name)
		}
		for _, v := range g.violations {
			r.Printf("- **%s** `%s`: %s\n", v.Severity, v.RuleID, v.Message)
		}
	}
	r.Println("")
}
