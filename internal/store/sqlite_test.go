package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_CreateAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "data/raw/census.csv")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, StatusRunning, run.Status)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "data/raw/census.csv", got.InputPath)
	assert.Equal(t, StatusRunning, got.Status)
	assert.Nil(t, got.CompletedAt)
}

func TestSQLite_CompleteRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "in.csv")
	require.NoError(t, err)

	counts := RunCounts{
		RowsIn:          100,
		RowsSelected:    40,
		RowsTrain:       24,
		RowsValid:       8,
		RowsTest:        8,
		TreatmentMedian: 37.5,
	}
	require.NoError(t, st.CompleteRun(ctx, run.ID, counts))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, got.Status)
	assert.Equal(t, 100, got.RowsIn)
	assert.Equal(t, 24, got.RowsTrain)
	assert.Equal(t, 8, got.RowsValid)
	assert.Equal(t, 8, got.RowsTest)
	assert.InDelta(t, 37.5, got.TreatmentMedian, 0.001)
	require.NotNil(t, got.CompletedAt)
}

func TestSQLite_FailRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "in.csv")
	require.NoError(t, err)

	require.NoError(t, st.FailRun(ctx, run.ID, errors.New("select: required column \"age\" not in dataset")))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Contains(t, got.Error, "age")
	require.NotNil(t, got.CompletedAt)
}

func TestSQLite_UpdateMissingRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	assert.Error(t, st.CompleteRun(ctx, "nope", RunCounts{}))
	assert.Error(t, st.FailRun(ctx, "nope", errors.New("boom")))

	_, err := st.GetRun(ctx, "nope")
	assert.Error(t, err)
}

func TestSQLite_ListRuns(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for _, path := range []string{"a.csv", "b.csv", "c.csv"} {
		_, err := st.CreateRun(ctx, path)
		require.NoError(t, err)
	}

	runs, err := st.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 3)

	limited, err := st.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
