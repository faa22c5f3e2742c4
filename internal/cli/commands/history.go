package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/pkglint/internal/cli/output"
	"github.com/leapstack-labs/pkglint/internal/state"
	"github.com/leapstack-labs/pkglint/pkg/lint"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit  int
	Format string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded lint runs",
		Long: `Show lint runs recorded with 'pkglint lint --record'.

Runs are stored in a local SQLite database (state_path in pkglint.yaml,
default .pkglint/history.db).`,
		Example: `  # Show the ten most recent runs
  pkglint history

  # Show the violations of one run
  pkglint history show 3f2c9a1e-...

  # Keep only the last 20 runs
  pkglint history prune --keep 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listHistory(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 10, "Number of runs to show (0 for all)")

	cmd.AddCommand(newHistoryShowCommand(opts))
	cmd.AddCommand(newHistoryPruneCommand(opts))

	return cmd
}

func newHistoryShowCommand(opts *HistoryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the violations recorded for a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistoryRun(cmd, opts, args[0])
		},
	}
}

func newHistoryPruneCommand(opts *HistoryOptions) *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the most recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if keep < 0 {
				return fmt.Errorf("--keep must not be negative, got %d", keep)
			}
			cmdCtx := NewCommandContext(cmd, opts.Format)
			store, err := cmdCtx.OpenStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			n, err := store.Prune(cmd.Context(), keep)
			if err != nil {
				return err
			}
			cmdCtx.Renderer.Success(fmt.Sprintf("Deleted %d runs", n))
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 50, "Number of recent runs to keep")
	return cmd
}

// HistoryJSONOutput is the JSON output structure for the history listing.
type HistoryJSONOutput struct {
	Runs []*state.Run `json:"runs"`
}

// RunJSONOutput is the JSON output structure for a single run.
type RunJSONOutput struct {
	Run        *state.Run       `json:"run"`
	Violations []lint.Violation `json:"violations"`
}

func listHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer

	store, err := cmdCtx.OpenStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.ListRuns(cmd.Context(), opts.Limit)
	if err != nil {
		return err
	}

	mode := r.EffectiveMode()
	if mode == output.ModeJSON {
		if runs == nil {
			runs = []*state.Run{}
		}
		return r.JSON(HistoryJSONOutput{Runs: runs})
	}

	if len(runs) == 0 {
		r.Println("No recorded runs. Use 'pkglint lint --record' to record one.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.AppendHeader(table.Row{"ID", "Started", "Duration", "Source", "Packages", "Errors", "Warnings", "Info", "Hints"})
	for _, run := range runs {
		t.AppendRow(table.Row{
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			run.Duration.Round(time.Millisecond),
			run.Source,
			run.Units,
			run.Errors,
			run.Warnings,
			run.Info,
			run.Hints,
		})
	}

	if mode == output.ModeMarkdown {
		r.Println("# Lint History")
		r.Println("")
		t.RenderMarkdown()
		r.Println("")
		return nil
	}

	r.Println("")
	r.Println(r.Styles().Header1.Render(fmt.Sprintf("Lint History (%d runs)", len(runs))))
	r.Println("")
	t.SetStyle(table.StyleLight)
	t.Render()
	r.Println("")
	return nil
}

func showHistoryRun(cmd *cobra.Command, opts *HistoryOptions, id string) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer

	store, err := cmdCtx.OpenStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	run, err := store.GetRun(cmd.Context(), id)
	if errors.Is(err, state.ErrRunNotFound) {
		return fmt.Errorf("run %q not found", id)
	}
	if err != nil {
		return err
	}
	violations, err := store.RunViolations(cmd.Context(), id)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		if violations == nil {
			violations = []lint.Violation{}
		}
		return r.JSON(RunJSONOutput{Run: run, Violations: violations})
	}

	r.Printf("Run %s: %s, %d packages, %s\n\n",
		run.ID, run.StartedAt.Local().Format(time.DateTime), run.Units, run.Source)
	return renderLintResults(r, run.Units, violations)
}
