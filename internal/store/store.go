// Package store persists preparation run history in SQLite.
package store

import (
	"context"
	"time"
)

// RunStatus tracks a preparation run's lifecycle.
type RunStatus string

const (
	StatusRunning   RunStatus = "running"
	StatusSucceeded RunStatus = "succeeded"
	StatusFailed    RunStatus = "failed"
)

// Run records one execution of the preparation pipeline.
type Run struct {
	ID        string    `json:"id"`
	InputPath string    `json:"input_path"`
	Status    RunStatus `json:"status"`

	RowsIn       int `json:"rows_in"`
	RowsSelected int `json:"rows_selected"`
	RowsTrain    int `json:"rows_train"`
	RowsValid    int `json:"rows_valid"`
	RowsTest     int `json:"rows_test"`

	TreatmentMedian float64 `json:"treatment_median"`
	Error           string  `json:"error,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// RunCounts carries the row counts recorded when a run succeeds.
type RunCounts struct {
	RowsIn          int
	RowsSelected    int
	RowsTrain       int
	RowsValid       int
	RowsTest        int
	TreatmentMedian float64
}

// Store defines the persistence interface for run history.
type Store interface {
	CreateRun(ctx context.Context, inputPath string) (*Run, error)
	CompleteRun(ctx context.Context, runID string, counts RunCounts) error
	FailRun(ctx context.Context, runID string, runErr error) error
	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
