package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS prep_runs (
	id               TEXT PRIMARY KEY,
	input_path       TEXT NOT NULL,
	status           TEXT NOT NULL DEFAULT 'running',
	rows_in          INTEGER NOT NULL DEFAULT 0,
	rows_selected    INTEGER NOT NULL DEFAULT 0,
	rows_train       INTEGER NOT NULL DEFAULT 0,
	rows_valid       INTEGER NOT NULL DEFAULT 0,
	rows_test        INTEGER NOT NULL DEFAULT 0,
	treatment_median REAL NOT NULL DEFAULT 0,
	error            TEXT NOT NULL DEFAULT '',
	created_at       DATETIME NOT NULL,
	completed_at     DATETIME
);

CREATE INDEX IF NOT EXISTS idx_prep_runs_status ON prep_runs(status);
CREATE INDEX IF NOT EXISTS idx_prep_runs_created_at ON prep_runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, inputPath string) (*Run, error) {
	run := &Run{
		ID:        uuid.New().String(),
		InputPath: inputPath,
		Status:    StatusRunning,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO prep_runs (id, input_path, status, created_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.InputPath, run.Status, run.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: create run")
	}
	return run, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, counts RunCounts) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE prep_runs
		 SET status = ?, rows_in = ?, rows_selected = ?, rows_train = ?, rows_valid = ?, rows_test = ?,
		     treatment_median = ?, completed_at = ?
		 WHERE id = ?`,
		StatusSucceeded, counts.RowsIn, counts.RowsSelected, counts.RowsTrain, counts.RowsValid, counts.RowsTest,
		counts.TreatmentMedian, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: complete run")
	}
	return requireRowUpdated(res, runID)
}

func (s *SQLiteStore) FailRun(ctx context.Context, runID string, runErr error) error {
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE prep_runs SET status = ?, error = ?, completed_at = ? WHERE id = ?`,
		StatusFailed, msg, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: fail run")
	}
	return requireRowUpdated(res, runID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, input_path, status, rows_in, rows_selected, rows_train, rows_valid, rows_test,
		        treatment_median, error, created_at, completed_at
		 FROM prep_runs WHERE id = ?`, runID)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("sqlite: run %s not found", runID)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get run")
	}
	return run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input_path, status, rows_in, rows_selected, rows_train, rows_valid, rows_test,
		        treatment_median, error, created_at, completed_at
		 FROM prep_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var completed sql.NullTime
	err := row.Scan(
		&run.ID, &run.InputPath, &run.Status,
		&run.RowsIn, &run.RowsSelected, &run.RowsTrain, &run.RowsValid, &run.RowsTest,
		&run.TreatmentMedian, &run.Error, &run.CreatedAt, &completed,
	)
	if err != nil {
		return nil, err
	}
	if completed.Valid {
		t := completed.Time
		run.CompletedAt = &t
	}
	return &run, nil
}

func requireRowUpdated(res sql.Result, runID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: run %s not found", runID)
	}
	return nil
}
