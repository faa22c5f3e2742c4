package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/pkglint/pkg/core"
	"github.com/leapstack-labs/pkglint/pkg/lint"
)

// ErrRunNotFound is returned by GetRun for unknown IDs.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `id, started_at, duration_ms, source, units, errors, warnings, info, hints`

// RecordRun stores a run and its violations in one transaction.
func (s *SQLiteStore) RecordRun(ctx context.Context, in RunInput) (*Run, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	summary := lint.Summarize(in.Violations)
	run := &Run{
		ID:        generateID(),
		StartedAt: in.StartedAt.UTC(),
		Duration:  in.Duration,
		Source:    in.Source,
		Units:     in.Units,
		Errors:    summary.Errors,
		Warnings:  summary.Warnings,
		Info:      summary.Info,
		Hints:     summary.Hints,
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UnixMilli(), run.Duration.Milliseconds(), run.Source, run.Units,
		run.Errors, run.Warnings, run.Info, run.Hints,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO violations (run_id, unit_name, import_path, rule_id, severity, message) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare violation insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, v := range in.Violations {
		if _, err := stmt.ExecContext(ctx, run.ID, v.UnitName, v.ImportPath, v.RuleID, v.Severity.String(), v.Message); err != nil {
			return nil, fmt.Errorf("failed to record violation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit run: %w", err)
	}

	s.logger.Debug("recorded run", slog.String("id", run.ID), slog.Int("violations", len(in.Violations)))
	return run, nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns retrieves the most recent runs, newest first. A limit below 1
// returns every run.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	if limit < 1 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunViolations returns the violations of a run in report order.
func (s *SQLiteStore) RunViolations(ctx context.Context, runID string) ([]lint.Violation, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT unit_name, import_path, rule_id, severity, message FROM violations
		 WHERE run_id = ? ORDER BY unit_name, rule_id, id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list violations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var violations []lint.Violation
	for rows.Next() {
		var v lint.Violation
		var severity string
		if err := rows.Scan(&v.UnitName, &v.ImportPath, &v.RuleID, &severity, &v.Message); err != nil {
			return nil, fmt.Errorf("failed to scan violation: %w", err)
		}
		sev, ok := core.ParseSeverity(severity)
		if !ok {
			return nil, fmt.Errorf("violation of run %s: unknown severity %q", runID, severity)
		}
		v.Severity = sev
		violations = append(violations, v)
	}
	return violations, rows.Err()
}

// Prune deletes all but the keep most recent runs and returns how many were removed.
func (s *SQLiteStore) Prune(ctx context.Context, keep int) (int64, error) {
	if s.db == nil {
		return 0, ErrNotOpen
	}
	if keep < 0 {
		keep = 0
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE id NOT IN (
			SELECT id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	s.logger.Debug("pruned runs", slog.Int64("removed", n), slog.Int("kept", keep))
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run        Run
		startedAt  int64
		durationMS int64
	)
	if err := row.Scan(&run.ID, &startedAt, &durationMS, &run.Source, &run.Units,
		&run.Errors, &run.Warnings, &run.Info, &run.Hints); err != nil {
		return nil, err
	}
	run.StartedAt = time.UnixMilli(startedAt).UTC()
	run.Duration = time.Duration(durationMS) * time.Millisecond
	return &run, nil
}
