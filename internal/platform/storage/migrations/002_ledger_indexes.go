package migrations

import (
	"gorm.io/gorm"
)

// Migration002LedgerIndexes adds lookup indexes to the ledger tables.
type Migration002LedgerIndexes struct{}

func (m *Migration002LedgerIndexes) Version() string {
	return "002_ledger_indexes"
}

func (m *Migration002LedgerIndexes) Description() string {
	return "Index conversion items by run and runs by start time"
}

func (m *Migration002LedgerIndexes) Up(db *gorm.DB) error {
	statements := []string{
		`CREATE INDEX IF NOT EXISTS idx_conversion_items_run_id ON conversion_items(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_conversion_runs_started_at ON conversion_runs(started_at)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
