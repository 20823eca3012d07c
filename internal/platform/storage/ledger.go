package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"xp-theme-tools/internal/platform/errors"
	"xp-theme-tools/internal/platform/storage/migrations"
)

// Migrations returns the ledger schema migrations in order.
func Migrations() []Migration {
	return []Migration{
		&migrations.Migration001LedgerTables{},
		&migrations.Migration002LedgerIndexes{},
	}
}

// OpenLedger opens the SQLite database at dsn and brings its schema up to
// date. The parent directory of a file DSN is created when missing.
func OpenLedger(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New(errors.KindStorage, "storage.open", "ledger dsn is empty")
	}

	if path := dsnPath(dsn); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(errors.KindStorage, "storage.open", "failed to create ledger directory", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "storage.open", fmt.Sprintf("failed to open ledger %s", dsn), err)
	}

	if _, err := NewMigrationManager(db, Migrations()...).RunMigrations(); err != nil {
		_ = CloseLedger(db)
		return nil, err
	}

	return db, nil
}

// CloseLedger releases the connection pool behind db.
func CloseLedger(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(errors.KindStorage, "storage.close", "failed to get sql.DB", err)
	}
	return sqlDB.Close()
}

// dsnPath returns the filesystem path of a file DSN, or "" for in-memory
// databases.
func dsnPath(dsn string) string {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return ""
	}
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path
}
