package datastore

import (
	"context"
	"fmt"
	"time"
)

var (
	ErrRunStoreNotEnabled = fmt.Errorf("run store is not enabled")
	ErrRunStoreNotFound   = fmt.Errorf("no run found in run store")
	ErrRunStoreConnection = fmt.Errorf("failed to connect to run store")
	ErrRunStoreSelect     = fmt.Errorf("failed to select from run store")
	ErrRunStoreInsert     = fmt.Errorf("failed to insert into run store")
)

// RunRecord is the durable trace of a single agent or workflow run that
// passed through the server.
type RunRecord struct {
	RunID      string    `json:"run_id"`
	Kind       string    `json:"kind"` // "agent" or "workflow"
	Key        string    `json:"key"`  // registered agent or workflow name
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// RunStore persists run records into long term storage
type RunStore interface {
	GetRun(runID string) (*RunRecord, error)
	ListRuns(key string, limit int) ([]*RunRecord, error)
	Store(record *RunRecord) error
	Close(ctx context.Context) error
}
