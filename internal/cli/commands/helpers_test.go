package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pkglint/internal/cli/config"
	"github.com/leapstack-labs/pkglint/internal/testutil"
)

// testConfig returns a config whose history database lives in a temp dir.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		StatePath:    filepath.Join(dir, "history.db"),
		OutputFormat: config.DefaultOutput,
		ProjectRoot:  dir,
	}
}

// execute runs cmd with args under a context carrying cfg and a test logger.
// It returns standard output and standard error separately.
func execute(t *testing.T, cmd *cobra.Command, cfg *config.Config, args ...string) (string, string, error) {
	t.Helper()

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	ctx := context.WithValue(context.Background(), config.ConfigKey(), cfg)
	ctx = context.WithValue(ctx, config.LoggerKey(), testutil.NewTestLogger(t))

	err := cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}
