package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pkglint/internal/testutil"
)

// newFlags mirrors the root command's persistent flags.
func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("state", "", "")
	fs.BoolP("verbose", "v", false, "")
	fs.StringP("output", "o", "", "")
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.ConfigFile)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultStateFile), cfg.StatePath)
	assert.Nil(t, cfg.Lint)
	assert.NotNil(t, cfg.LintSection())
}

func TestLoadConfig_FileSearchedUpward(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"pkglint.yaml": `
output: json
state_path: var/history.db
lint:
  disabled: [requires-leading-doc]
  severity:
    lowercase-only: error
  fold_case: true
  rules:
    no-plural-suffix:
      exceptions: [errors, strings]
`,
		"internal/deep/x.go": "package deep\n",
	})
	t.Chdir(filepath.Join(root, "internal", "deep"))

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, "var", "history.db"), cfg.StatePath)
	assert.Equal(t, "pkglint.yaml", filepath.Base(cfg.ConfigFile))

	lint := cfg.LintSection()
	assert.Equal(t, []string{"requires-leading-doc"}, lint.Disabled)
	assert.Equal(t, map[string]string{"lowercase-only": "error"}, lint.Severity)
	assert.True(t, lint.FoldCase)
	assert.Equal(t, []any{"errors", "strings"}, lint.RuleOptionsFor("no-plural-suffix")["exceptions"])
}

func TestLoadConfig_Precedence(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"custom.yml": "output: markdown\nverbose: false\n",
	})
	t.Chdir(root)
	t.Setenv("PKGLINT_OUTPUT", "text")
	t.Setenv("PKGLINT_LINT__FOLD_CASE", "true")

	t.Run("env overrides file", func(t *testing.T) {
		cfg, err := LoadConfig("custom.yml", newFlags())
		require.NoError(t, err)
		assert.Equal(t, "text", cfg.OutputFormat)
		assert.True(t, cfg.LintSection().FoldCase)
	})

	t.Run("flags override env", func(t *testing.T) {
		flags := newFlags()
		require.NoError(t, flags.Parse([]string{"-o", "json", "-v", "--state", "h.db"}))

		cfg, err := LoadConfig("custom.yml", flags)
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.OutputFormat)
		assert.True(t, cfg.Verbose)
		assert.True(t, filepath.IsAbs(cfg.StatePath))
		assert.Equal(t, "h.db", filepath.Base(cfg.StatePath))
	})
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name      string
		files     map[string]string
		cfgFile   string
		errSubstr string
	}{
		{
			name:      "missing explicit file",
			cfgFile:   "nope.yaml",
			errSubstr: "error reading config file",
		},
		{
			name:      "invalid yaml",
			files:     map[string]string{"pkglint.yaml": "output: [unterminated\n"},
			errSubstr: "error reading config file",
		},
		{
			name:      "invalid output",
			files:     map[string]string{"pkglint.yaml": "output: xml\n"},
			errSubstr: `invalid output format "xml"`,
		},
		{
			name:      "invalid severity",
			files:     map[string]string{"pkglint.yaml": "lint:\n  severity:\n    lowercase-only: fatal\n"},
			errSubstr: `invalid severity "fatal"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(testutil.WriteTree(t, tt.files))
			_, err := LoadConfig(tt.cfgFile, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "output", envKey("PKGLINT_OUTPUT"))
	assert.Equal(t, "state_path", envKey("PKGLINT_STATE_PATH"))
	assert.Equal(t, "lint.fold_case", envKey("PKGLINT_LINT__FOLD_CASE"))
}

func TestScalarKeys(t *testing.T) {
	keys := ScalarKeys()
	assert.Equal(t, []string{"lint.fold_case", "output", "state_path", "verbose"}, keys)

	for _, key := range keys {
		assert.Equal(t, key, envKey(EnvVar(key)), "env var for %s must map back", key)
	}
	assert.Equal(t, "PKGLINT_LINT__FOLD_CASE", EnvVar("lint.fold_case"))
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

func TestGetConfig(t *testing.T) {
	fallback := GetConfig(context.Background())
	require.NotNil(t, fallback)
	assert.Equal(t, DefaultOutput, fallback.OutputFormat)
	assert.True(t, filepath.IsAbs(fallback.StatePath))

	cfg := &Config{OutputFormat: "json"}
	ctx := context.WithValue(context.Background(), ConfigKey(), cfg)
	assert.Same(t, cfg, GetConfig(ctx))
}
