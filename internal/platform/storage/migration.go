package storage

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"xp-theme-tools/internal/platform/errors"
)

// Migration is one versioned change to the ledger schema. Migrations are
// forward-only.
type Migration interface {
	Version() string
	Description() string
	Up(db *gorm.DB) error
}

// SchemaVersion marks an applied migration.
type SchemaVersion struct {
	ID        uint      `gorm:"primaryKey"`
	Version   string    `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (SchemaVersion) TableName() string {
	return "ledger_schema"
}

// MigrationManager brings a ledger database up to the latest schema.
type MigrationManager struct {
	db         *gorm.DB
	migrations []Migration
}

func NewMigrationManager(db *gorm.DB, migrations ...Migration) *MigrationManager {
	return &MigrationManager{
		db:         db,
		migrations: migrations,
	}
}

// RunMigrations applies every pending migration in order, each in its own
// transaction, and returns the versions it applied.
func (m *MigrationManager) RunMigrations() ([]string, error) {
	if err := m.db.AutoMigrate(&SchemaVersion{}); err != nil {
		return nil, errors.Wrap(errors.KindStorage, "migration.schema_table", "failed to create schema table", err)
	}

	history, err := m.History()
	if err != nil {
		return nil, err
	}
	done := make(map[string]struct{}, len(history))
	for _, v := range history {
		done[v.Version] = struct{}{}
	}

	var applied []string
	for _, migration := range m.migrations {
		if _, ok := done[migration.Version()]; ok {
			continue
		}

		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaVersion{
				Version:   migration.Version(),
				Name:      migration.Description(),
				AppliedAt: time.Now(),
			}).Error
		})
		if err != nil {
			return applied, errors.Wrap(errors.KindStorage, "migration.up",
				fmt.Sprintf("migration %s failed", migration.Version()), err)
		}
		applied = append(applied, migration.Version())
	}
	return applied, nil
}

// History lists applied migrations in the order they ran.
func (m *MigrationManager) History() ([]SchemaVersion, error) {
	var versions []SchemaVersion
	if err := m.db.Order("id ASC").Find(&versions).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "migration.history", "failed to read schema history", err)
	}
	return versions, nil
}

// SchemaHistory reports the migrations applied to an open ledger.
func SchemaHistory(db *gorm.DB) ([]SchemaVersion, error) {
	return NewMigrationManager(db).History()
}
