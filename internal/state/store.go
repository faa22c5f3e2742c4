// Package state records lint runs in a local SQLite database so results can be
// compared over time.
package state

import (
	"context"
	"time"

	"github.com/leapstack-labs/pkglint/pkg/lint"
)

// Run is one recorded lint invocation.
type Run struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Source    string        `json:"source"` // patterns, directory or descriptor file that was linted
	Units     int           `json:"units"`
	Errors    int           `json:"errors"`
	Warnings  int           `json:"warnings"`
	Info      int           `json:"info"`
	Hints     int           `json:"hints"`
}

// Total returns the number of violations recorded for the run.
func (r *Run) Total() int {
	return r.Errors + r.Warnings + r.Info + r.Hints
}

// RunInput is what callers hand to RecordRun.
type RunInput struct {
	StartedAt  time.Time
	Duration   time.Duration
	Source     string
	Units      int
	Violations []lint.Violation
}

// Store persists lint runs.
type Store interface {
	RecordRun(ctx context.Context, in RunInput) (*Run, error)
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	RunViolations(ctx context.Context, runID string) ([]lint.Violation, error)
	Prune(ctx context.Context, keep int) (int64, error)
	Close() error
}

var _ Store = (*SQLiteStore)(nil)
