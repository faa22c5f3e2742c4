package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pkglint/internal/cli/config"
	"github.com/leapstack-labs/pkglint/internal/cli/output"
	clitestutil "github.com/leapstack-labs/pkglint/internal/cli/testutil"
	"github.com/leapstack-labs/pkglint/internal/state"
	"github.com/leapstack-labs/pkglint/pkg/core"
	"github.com/leapstack-labs/pkglint/pkg/lint"
	"github.com/leapstack-labs/pkglint/pkg/lint/rules"
)

func TestNewLintCommand(t *testing.T) {
	cmd := NewLintCommand()

	assert.Equal(t, "lint [patterns...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	// Verify flags exist
	flags := []string{"format", "disable", "severity", "rule", "concurrency", "fold-case", "parse", "units", "watch", "record"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestBuildLintConfig(t *testing.T) {
	rs, err := rules.NewRuleSet(rules.DefaultOptions())
	require.NoError(t, err)

	t.Run("empty options", func(t *testing.T) {
		cfg, err := buildLintConfig(&config.Config{}, &LintOptions{}, rs)
		require.NoError(t, err)

		for _, id := range rs.IDs() {
			assert.False(t, cfg.IsDisabled(id), id)
		}
	})

	t.Run("disable rules", func(t *testing.T) {
		opts := &LintOptions{
			Disable: []string{rules.IDLowercaseOnly, " " + rules.IDNoGenericName},
		}
		cfg, err := buildLintConfig(&config.Config{}, opts, rs)
		require.NoError(t, err)

		assert.True(t, cfg.IsDisabled(rules.IDLowercaseOnly))
		assert.True(t, cfg.IsDisabled(rules.IDNoGenericName))
		assert.False(t, cfg.IsDisabled(rules.IDNoPluralSuffix))
	})

	t.Run("enable only specific rules", func(t *testing.T) {
		opts := &LintOptions{
			Rules: []string{rules.IDLowercaseOnly, rules.IDCleanImportPath},
		}
		cfg, err := buildLintConfig(&config.Config{}, opts, rs)
		require.NoError(t, err)

		for _, id := range rs.IDs() {
			want := id != rules.IDLowercaseOnly && id != rules.IDCleanImportPath
			assert.Equal(t, want, cfg.IsDisabled(id), id)
		}
	})

	t.Run("rule and disable together", func(t *testing.T) {
		opts := &LintOptions{
			Rules:   []string{rules.IDLowercaseOnly},
			Disable: []string{rules.IDLowercaseOnly},
		}
		cfg, err := buildLintConfig(&config.Config{}, opts, rs)
		require.NoError(t, err)
		assert.True(t, cfg.IsDisabled(rules.IDLowercaseOnly))
	})

	t.Run("project config disabled rules and severity", func(t *testing.T) {
		projectCfg := &config.Config{
			Lint: &config.LintConfig{
				Disabled: []string{rules.IDRequiresLeadingDoc},
				Severity: map[string]string{
					rules.IDLowercaseOnly:  "error",
					rules.IDNoPluralSuffix: "hint",
				},
			},
		}
		opts := &LintOptions{Disable: []string{rules.IDNameMatchesPath}}
		cfg, err := buildLintConfig(projectCfg, opts, rs)
		require.NoError(t, err)

		assert.True(t, cfg.IsDisabled(rules.IDRequiresLeadingDoc))
		assert.True(t, cfg.IsDisabled(rules.IDNameMatchesPath))
		assert.Equal(t, core.SeverityError, cfg.GetSeverity(rules.IDLowercaseOnly, core.SeverityWarning))
		assert.Equal(t, core.SeverityHint, cfg.GetSeverity(rules.IDNoPluralSuffix, core.SeverityWarning))
		assert.Equal(t, core.SeverityWarning, cfg.GetSeverity(rules.IDNoGenericName, core.SeverityWarning))
	})
}

func TestBuildLintConfig_Errors(t *testing.T) {
	rs, err := rules.NewRuleSet(rules.DefaultOptions())
	require.NoError(t, err)

	tests := []struct {
		name    string
		cfg     *config.Config
		opts    *LintOptions
		wantErr error
		wantMsg string
	}{
		{
			name:    "unknown disabled rule in config",
			cfg:     &config.Config{Lint: &config.LintConfig{Disabled: []string{"bogus"}}},
			opts:    &LintOptions{},
			wantErr: lint.ErrUnknownRule,
			wantMsg: `lint configuration (rule "bogus"): unknown rule id in lint.disabled`,
		},
		{
			name:    "unknown severity rule",
			cfg:     &config.Config{Lint: &config.LintConfig{Severity: map[string]string{"nope": "error"}}},
			opts:    &LintOptions{},
			wantErr: lint.ErrUnknownRule,
		},
		{
			name:    "invalid severity value",
			cfg:     &config.Config{Lint: &config.LintConfig{Severity: map[string]string{rules.IDLowercaseOnly: "fatal"}}},
			opts:    &LintOptions{},
			wantErr: lint.ErrInvalidOption,
		},
		{
			name:    "unknown --disable",
			cfg:     &config.Config{},
			opts:    &LintOptions{Disable: []string{"nope"}},
			wantErr: lint.ErrUnknownRule,
			wantMsg: `lint configuration (rule "nope"): unknown rule id in --disable`,
		},
		{
			name:    "unknown --rule",
			cfg:     &config.Config{},
			opts:    &LintOptions{Rules: []string{"nope"}},
			wantErr: lint.ErrUnknownRule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildLintConfig(tt.cfg, tt.opts, rs)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var cfgErr *lint.ConfigurationError
			assert.ErrorAs(t, err, &cfgErr)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, err.Error())
			}
		})
	}
}

// lintJSON runs the lint command with JSON output and decodes the result.
func lintJSON(t *testing.T, cfg *config.Config, args ...string) (output.LintOutput, error) {
	t.Helper()
	stdout, _, err := execute(t, NewLintCommand(), cfg, append(args, "--format", "json")...)

	var got output.LintOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &got), stdout)
	return got, err
}

type finding struct {
	unit string
	rule string
}

func findings(violations []lint.Violation) []finding {
	out := make([]finding, 0, len(violations))
	for _, v := range violations {
		out = append(out, finding{v.UnitName, v.RuleID})
	}
	return out
}

func TestLintCommand_Parse(t *testing.T) {
	dir := clitestutil.SetupTestModule(t)

	tests := []struct {
		name    string
		args    []string
		want    []finding
		wantErr bool
	}{
		{
			name: "default threshold hides info",
			args: []string{"--parse", dir},
			want: []finding{
				{"Helpers", rules.IDLowercaseOnly},
				{"Helpers", rules.IDNoPluralSuffix},
				{"utils", rules.IDNoGenericName},
				{"utils", rules.IDNoPluralSuffix},
				{"utils", rules.IDRequiresLeadingDoc},
			},
			wantErr: true,
		},
		{
			name: "info threshold",
			args: []string{"--parse", dir, "--severity", "info"},
			want: []finding{
				{"Helpers", rules.IDLowercaseOnly},
				{"Helpers", rules.IDNameMatchesPath},
				{"Helpers", rules.IDNoPluralSuffix},
				{"utils", rules.IDNoGenericName},
				{"utils", rules.IDNoPluralSuffix},
				{"utils", rules.IDRequiresLeadingDoc},
			},
			wantErr: true,
		},
		{
			name: "single rule",
			args: []string{"--parse", dir, "--rule", rules.IDNoGenericName, "-j", "4"},
			want: []finding{
				{"utils", rules.IDNoGenericName},
			},
			wantErr: true,
		},
		{
			name:    "error threshold is clean",
			args:    []string{"--parse", dir, "--severity", "error"},
			want:    []finding{},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lintJSON(t, testConfig(t), tt.args...)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrIssuesFound)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, 4, got.UnitsChecked)
			assert.Equal(t, tt.want, findings(got.Violations))
			assert.Equal(t, len(tt.want), got.Summary.TotalIssues)
		})
	}
}

func TestLintCommand_ConfigOptions(t *testing.T) {
	dir := clitestutil.SetupTestModule(t)

	cfg := testConfig(t)
	cfg.Lint = &config.LintConfig{
		Disabled: []string{rules.IDRequiresLeadingDoc},
		Severity: map[string]string{rules.IDLowercaseOnly: "error"},
		Rules: map[string]config.RuleOptions{
			rules.IDNoPluralSuffix: {"exceptions": []any{"utils"}},
		},
	}

	got, err := lintJSON(t, cfg, "--parse", dir)
	assert.ErrorIs(t, err, ErrIssuesFound)

	assert.Equal(t, []finding{
		{"Helpers", rules.IDLowercaseOnly},
		{"Helpers", rules.IDNoPluralSuffix},
		{"utils", rules.IDNoGenericName},
	}, findings(got.Violations))
	assert.Equal(t, core.SeverityError, got.Violations[0].Severity)
	assert.Equal(t, "example.com/demo/helpers", got.Violations[0].ImportPath)
	assert.Equal(t, 1, got.Summary.Errors)
}

func TestLintCommand_FoldCase(t *testing.T) {
	dir := clitestutil.SetupTestModule(t)

	cfg := testConfig(t)
	cfg.Lint = &config.LintConfig{
		Rules: map[string]config.RuleOptions{
			rules.IDNoGenericName: {"denylist": []any{"HELPERS"}},
		},
	}

	got, err := lintJSON(t, cfg, "--parse", dir, "--rule", rules.IDNoGenericName)
	require.NoError(t, err)
	assert.Empty(t, got.Violations)

	got, err = lintJSON(t, cfg, "--parse", dir, "--rule", rules.IDNoGenericName, "--fold-case")
	assert.ErrorIs(t, err, ErrIssuesFound)
	assert.Equal(t, []finding{{"Helpers", rules.IDNoGenericName}}, findings(got.Violations))
}

func TestLintCommand_Units(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "units.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- name: server
  isEntryPoint: false
  hasLeadingDoc: true
  importPath: example.com/app/server
- name: models
  isEntryPoint: false
  hasLeadingDoc: true
  importPathSegments: [example.com, app, src, models]
- isEntryPoint: false
  hasLeadingDoc: true
  importPath: example.com/app/broken
`), 0o600))

	got, err := lintJSON(t, testConfig(t), "--units", path)
	assert.ErrorIs(t, err, ErrIssuesFound)

	assert.Equal(t, 3, got.UnitsChecked)
	assert.Equal(t, []finding{
		{"", lint.StructuralRuleID},
		{"models", rules.IDCleanImportPath},
		{"models", rules.IDNoGenericName},
		{"models", rules.IDNoPluralSuffix},
	}, findings(got.Violations))
	assert.Equal(t, core.SeverityError, got.Violations[0].Severity)
}

func TestLintCommand_Record(t *testing.T) {
	dir := clitestutil.SetupTestModule(t)
	cfg := testConfig(t)

	_, err := lintJSON(t, cfg, "--parse", dir, "--record")
	assert.ErrorIs(t, err, ErrIssuesFound)

	store := state.NewSQLiteStore(nil)
	require.NoError(t, store.Open(t.Context(), cfg.StatePath))
	t.Cleanup(func() { _ = store.Close() })

	runs, err := store.ListRuns(t.Context(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, dir, runs[0].Source)
	assert.Equal(t, 4, runs[0].Units)
	// Every violation is recorded, including those below the display threshold.
	assert.Equal(t, 5, runs[0].Warnings)
	assert.Equal(t, 1, runs[0].Info)
}

func TestLintCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"units with patterns", []string{"--units", "x.json", "./..."}, "--units cannot be combined with package patterns"},
		{"units with watch", []string{"--units", "x.json", "--watch"}, "--watch cannot be combined with --units"},
		{"parse with two dirs", []string{"--parse", "a", "b"}, "--parse takes a single directory, got 2 arguments"},
		{"bad severity", []string{"--parse", "--severity", "fatal"}, `invalid severity "fatal": want error, warning, info or hint`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, NewLintCommand(), testConfig(t), tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}

	t.Run("not a module", func(t *testing.T) {
		_, _, err := execute(t, NewLintCommand(), testConfig(t), "--parse", t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no module declaration found")
	})
}

func TestLintCommand_Markdown(t *testing.T) {
	dir := clitestutil.SetupTestModule(t)

	stdout, _, err := execute(t, NewLintCommand(), testConfig(t), "--parse", dir)
	assert.ErrorIs(t, err, ErrIssuesFound)

	clitestutil.AssertNoANSI(t, stdout)
	clitestutil.AssertValidMarkdown(t, stdout)
	assert.Contains(t, stdout, "# Lint Results")
	assert.Contains(t, stdout, "## `utils` (example.com/demo/utils)")
	assert.Contains(t, stdout, "- **warning** `no-generic-name`: package name \"utils\" is too generic")
	assert.Contains(t, stdout, "Summary: 5 issues, 5 warnings in 2 of 4 packages")
}

func TestRenderLintResults(t *testing.T) {
	violations := []lint.Violation{
		{RuleID: rules.IDLowercaseOnly, UnitName: "Foo", ImportPath: "x/foo", Message: "m1", Severity: core.SeverityError},
		{RuleID: rules.IDNoPluralSuffix, UnitName: "Foo", ImportPath: "x/foo", Message: "m2", Severity: core.SeverityWarning},
		{RuleID: rules.IDNoGenericName, UnitName: "util", ImportPath: "x/util", Message: "m3", Severity: core.SeverityHint},
	}

	t.Run("text", func(t *testing.T) {
		tr := clitestutil.NewTestRenderer(output.ModeText, false)
		require.NoError(t, renderLintResults(tr.Renderer, 3, violations))

		out := tr.Output()
		clitestutil.AssertNoANSI(t, out)
		assert.Contains(t, out, "Foo  x/foo\n")
		assert.Contains(t, out, "error    lowercase-only        m1")
		assert.Contains(t, out, "Summary: 3 issues, 1 errors, 1 warnings, 1 hints in 2 of 3 packages")
	})

	t.Run("clean", func(t *testing.T) {
		tr := clitestutil.NewTestRendererMarkdown()
		require.NoError(t, renderLintResults(tr.Renderer, 3, nil))
		assert.Equal(t, "No lint issues found in 3 packages\n", tr.Output())
	})

	t.Run("json clean", func(t *testing.T) {
		tr := clitestutil.NewTestRendererJSON()
		require.NoError(t, renderLintResults(tr.Renderer, 2, nil))
		assert.Contains(t, tr.Output(), `"violations": []`)
	})
}

func TestRenderLintResults_Modes(t *testing.T) {
	violations := []lint.Violation{
		{RuleID: rules.IDNoGenericName, UnitName: "util", ImportPath: "x/util", Message: "generic", Severity: core.SeverityWarning},
	}

	auto := clitestutil.NewTestRendererAuto()
	require.NoError(t, renderLintResults(auto.Renderer, 1, violations))
	clitestutil.AssertOutputMode(t, auto, output.ModeMarkdown)
	clitestutil.AssertContains(t, auto.Output(), "# Lint Results")
	clitestutil.AssertNotContains(t, auto.Output(), "Error:")

	auto.Reset()
	assert.Empty(t, auto.Output())

	text := clitestutil.NewTestRendererText()
	require.NoError(t, renderLintResults(text.Renderer, 1, nil))
	clitestutil.AssertOutputMode(t, text, output.ModeText)
	clitestutil.AssertContains(t, text.Output(), "No lint issues found in 1 packages")
	assert.Empty(t, text.ErrorOutput())
}

func TestRenderLintResults_SameNamedUnits(t *testing.T) {
	units := []lint.Unit{
		{Name: "utils", ImportPathSegments: []string{"example.com", "a", "utils"}},
		{Name: "utils", ImportPathSegments: []string{"example.com", "b", "utils"}},
	}
	rs, err := rules.NewRuleSet(rules.DefaultOptions())
	require.NoError(t, err)
	violations, err := lint.Evaluate(units, rs)
	require.NoError(t, err)
	require.Len(t, violations, 6)

	t.Run("markdown", func(t *testing.T) {
		tr := clitestutil.NewTestRendererMarkdown()
		require.NoError(t, renderLintResults(tr.Renderer, 2, violations))

		out := tr.Output()
		assert.Equal(t, 1, strings.Count(out, "## `utils` (example.com/a/utils)"))
		assert.Equal(t, 1, strings.Count(out, "## `utils` (example.com/b/utils)"))
		assert.Equal(t, 6, strings.Count(out, "\n- **"))
		assert.Less(t, strings.Index(out, "example.com/a/utils"), strings.Index(out, "example.com/b/utils"))
	})

	t.Run("text", func(t *testing.T) {
		tr := clitestutil.NewTestRenderer(output.ModeText, false)
		require.NoError(t, renderLintResults(tr.Renderer, 2, violations))

		out := tr.Output()
		assert.Equal(t, 1, strings.Count(out, "utils  example.com/a/utils\n"))
		assert.Equal(t, 1, strings.Count(out, "utils  example.com/b/utils\n"))
		assert.Contains(t, out, "Summary: 6 issues, 6 warnings in 2 of 2 packages")
	})
}

func TestGroupByUnit(t *testing.T) {
	violations := []lint.Violation{
		{UnitName: "utils", ImportPath: "x/a/utils", RuleID: "r1"},
		{UnitName: "utils", ImportPath: "x/b/utils", RuleID: "r1"},
		{UnitName: "utils", ImportPath: "x/a/utils", RuleID: "r2"},
		{UnitName: "zeta", ImportPath: "x/zeta", RuleID: "r1"},
	}

	groups := groupByUnit(violations)
	require.Len(t, groups, 3)
	assert.Equal(t, "x/a/utils", groups[0].importPath)
	assert.Len(t, groups[0].violations, 2)
	assert.Equal(t, "x/b/utils", groups[1].importPath)
	assert.Equal(t, "zeta", groups[2].name)
	assert.Empty(t, groupByUnit(nil))
}
