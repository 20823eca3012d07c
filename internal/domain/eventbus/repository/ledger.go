package repository

import (
	"context"
	"time"

	"xp-theme-tools/internal/domain/icon"
)

// LedgerRepository persists batch runs and their per-item outcomes.
type LedgerRepository interface {
	// StartRun stores a new run record.
	StartRun(ctx context.Context, run Run) error

	// RecordItem stores one conversion outcome of a run.
	RecordItem(ctx context.Context, item Item) error

	// FinishRun stores the final counts of a run.
	FinishRun(ctx context.Context, run Run) error

	// FindRun returns a run by ID, or nil when it does not exist.
	FindRun(ctx context.Context, runID string) (*Run, error)

	// ListItems returns the items of a run in processing order.
	ListItems(ctx context.Context, runID string) ([]Item, error)

	// RecentRuns returns up to limit runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]Run, error)
}

// Run is one batch invocation.
type Run struct {
	ID         string
	InputDir   string
	OutputDir  string
	Total      int
	Success    int
	Failure    int
	Cancelled  bool
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Item is one source file processed in a run.
type Item struct {
	RunID     string
	Index     int
	Source    string
	Output    string
	Success   bool
	Reason    string
	Sizes     []icon.Size
	CreatedAt time.Time
}
