package eventbus

import (
	"time"

	"xp-theme-tools/internal/domain/icon"
)

// Batch lifecycle topics.
const (
	EventRunStarted    = "batch:run_started"
	EventItemConverted = "batch:item_converted"
	EventRunCompleted  = "batch:run_completed"
)

type RunStartedData struct {
	RunID     string    `json:"run_id"`
	InputDir  string    `json:"input_dir"`
	OutputDir string    `json:"output_dir"`
	Label     string    `json:"label"` // e.g. "PNG"
	Total     int       `json:"total"`
	StartedAt time.Time `json:"started_at"`
}

type ItemEventData struct {
	RunID  string      `json:"run_id"`
	Index  int         `json:"index"` // 1-based
	Total  int         `json:"total"`
	Name   string      `json:"name"`
	Result icon.Result `json:"result"`
}

// Percent is the share of the batch finished after this item.
func (d ItemEventData) Percent() int {
	if d.Total <= 0 {
		return 0
	}
	return d.Index * 100 / d.Total
}

type RunCompletedData struct {
	RunID      string    `json:"run_id"`
	OutputDir  string    `json:"output_dir"`
	ReadmePath string    `json:"readme_path,omitempty"`
	Total      int       `json:"total"`
	Success    int       `json:"success"`
	Failure    int       `json:"failure"`
	Cancelled  bool      `json:"cancelled"`
	FinishedAt time.Time `json:"finished_at"`
}
