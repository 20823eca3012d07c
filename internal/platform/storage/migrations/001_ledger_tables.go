package migrations

import (
	"gorm.io/gorm"
)

// Migration001LedgerTables creates the run ledger tables.
type Migration001LedgerTables struct{}

func (m *Migration001LedgerTables) Version() string {
	return "001_ledger_tables"
}

func (m *Migration001LedgerTables) Description() string {
	return "Create conversion run and item tables"
}

func (m *Migration001LedgerTables) Up(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS conversion_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id VARCHAR(64) NOT NULL UNIQUE,
			input_dir TEXT,
			output_dir TEXT,
			total INTEGER DEFAULT 0,
			success INTEGER DEFAULT 0,
			failure INTEGER DEFAULT 0,
			cancelled BOOLEAN DEFAULT FALSE,
			started_at DATETIME NOT NULL,
			finished_at DATETIME
		)
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS conversion_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id VARCHAR(64) NOT NULL,
			position INTEGER NOT NULL,
			source TEXT NOT NULL,
			output TEXT,
			success BOOLEAN NOT NULL,
			reason TEXT,
			sizes JSON,
			created_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return err
	}

	return nil
}
