package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pkglint/internal/testutil"
	"github.com/leapstack-labs/pkglint/pkg/core"
	"github.com/leapstack-labs/pkglint/pkg/lint"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(context.Background(), ":memory:"))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleViolations() []lint.Violation {
	return []lint.Violation{
		{RuleID: "no-generic-name", UnitName: "util", Message: "too generic", Severity: core.SeverityWarning, ImportPath: "x/util"},
		{RuleID: "requires-leading-doc", UnitName: "util", Message: "no doc", Severity: core.SeverityWarning, ImportPath: "x/util"},
		{RuleID: "entry-point-main", UnitName: "tool", Message: "want main", Severity: core.SeverityError, ImportPath: "x/cmd/tool"},
		{RuleID: "name-matches-path", UnitName: "codec", Message: "mismatch", Severity: core.SeverityInfo},
	}
}

func TestSQLiteStore_OpenMigrates(t *testing.T) {
	store := setupTestStore(t)

	version, err := store.MigrationVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	for _, table := range []string{"runs", "violations"} {
		rows, err := store.db.Query("SELECT 1 FROM " + table + " LIMIT 1")
		require.NoError(t, err, "table %s", table)
		_ = rows.Close()
	}
}

func TestSQLiteStore_OpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	ctx := context.Background()

	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(ctx, path))
	run, err := store.RecordRun(ctx, RunInput{Source: "./...", Units: 1})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening keeps data and does not re-apply migrations.
	reopened := NewSQLiteStore(nil)
	require.NoError(t, reopened.Open(ctx, path))
	defer func() { _ = reopened.Close() }()

	got, err := reopened.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "./...", got.Source)
}

func TestSQLiteStore_RecordRun(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	run, err := store.RecordRun(ctx, RunInput{
		StartedAt:  started,
		Duration:   1500 * time.Millisecond,
		Source:     "./...",
		Units:      3,
		Violations: sampleViolations(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, 1, run.Errors)
	assert.Equal(t, 2, run.Warnings)
	assert.Equal(t, 1, run.Info)
	assert.Equal(t, 4, run.Total())

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run, got)

	violations, err := store.RunViolations(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, lint.Report(sampleViolations()), violations)
}

func TestSQLiteStore_GetRunNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetRun(context.Background(), "missing")
	require.ErrorIs(t, err, ErrRunNotFound)
}

func TestSQLiteStore_ListAndPrune(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 5; i++ {
		run, err := store.RecordRun(ctx, RunInput{
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			Source:     "run",
			Violations: sampleViolations()[:1],
		})
		require.NoError(t, err)
		ids = append(ids, run.ID)
	}

	tests := []struct {
		name    string
		limit   int
		wantIDs []string
	}{
		{name: "limited", limit: 2, wantIDs: []string{ids[4], ids[3]}},
		{name: "unlimited", limit: 0, wantIDs: []string{ids[4], ids[3], ids[2], ids[1], ids[0]}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := store.ListRuns(ctx, tt.limit)
			require.NoError(t, err)
			var got []string
			for _, r := range runs {
				got = append(got, r.ID)
			}
			assert.Equal(t, tt.wantIDs, got)
		})
	}

	removed, err := store.Prune(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	// Violations of pruned runs go with them.
	violations, err := store.RunViolations(ctx, ids[0])
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore(nil)
	ctx := context.Background()

	_, err := store.RecordRun(ctx, RunInput{})
	assert.ErrorIs(t, err, ErrNotOpen)
	_, err = store.ListRuns(ctx, 1)
	assert.ErrorIs(t, err, ErrNotOpen)
	_, err = store.MigrationVersion(ctx)
	assert.ErrorIs(t, err, ErrNotOpen)
	assert.NoError(t, store.Close())
}
