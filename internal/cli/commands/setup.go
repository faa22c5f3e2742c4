package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pkglint/internal/cli/config"
	"github.com/leapstack-labs/pkglint/internal/cli/output"
	"github.com/leapstack-labs/pkglint/internal/state"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext reads the config and logger stored by the root command
// and builds a renderer. A non-empty format overrides the configured output mode.
func NewCommandContext(cmd *cobra.Command, format string) *CommandContext {
	cfg := config.GetConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	mode := output.Mode(cfg.OutputFormat)
	if format != "" {
		mode = output.Mode(format)
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}
}

// OpenStore opens the run history database configured for the project.
// The caller must close the returned store.
func (c *CommandContext) OpenStore(cmd *cobra.Command) (*state.SQLiteStore, error) {
	store := state.NewSQLiteStore(c.Logger)
	if err := store.Open(cmd.Context(), c.Cfg.StatePath); err != nil {
		return nil, fmt.Errorf("failed to open history at %s: %w", c.Cfg.StatePath, err)
	}
	return store, nil
}
