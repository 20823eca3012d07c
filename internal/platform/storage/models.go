package storage

import (
	"time"

	"gorm.io/datatypes"
)

// ConversionRun is the stored form of one batch run.
type ConversionRun struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	RunID      string     `gorm:"uniqueIndex;not null" json:"run_id"`
	InputDir   string     `gorm:"type:text" json:"input_dir"`
	OutputDir  string     `gorm:"type:text" json:"output_dir"`
	Total      int        `gorm:"default:0" json:"total"`
	Success    int        `gorm:"default:0" json:"success"`
	Failure    int        `gorm:"default:0" json:"failure"`
	Cancelled  bool       `gorm:"default:false" json:"cancelled"`
	StartedAt  time.Time  `gorm:"index" json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// TableName sets the table name.
func (ConversionRun) TableName() string {
	return "conversion_runs"
}

// ConversionItem is the stored outcome of one source file.
type ConversionItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	RunID     string         `gorm:"index;not null" json:"run_id"`
	Position  int            `gorm:"not null" json:"position"` // 1-based order within the run
	Source    string         `gorm:"type:text;not null" json:"source"`
	Output    string         `gorm:"type:text" json:"output"`
	Success   bool           `gorm:"not null" json:"success"`
	Reason    string         `gorm:"type:text" json:"reason"`
	Sizes     datatypes.JSON `json:"sizes"` // [{"width":16,"height":16},...]
	CreatedAt time.Time      `json:"created_at"`
}

// TableName sets the table name.
func (ConversionItem) TableName() string {
	return "conversion_items"
}
