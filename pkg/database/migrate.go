package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migration is one versioned schema step.
//
// Applied inspects the live schema and reports whether the step's changes
// already exist (for databases created before the step was recorded). Such
// steps are recorded without running Apply.
type Migration struct {
	ID      string
	Applied func(m gorm.Migrator) bool
	Apply   func(tx *gorm.DB) error
}

// SchemaMigration records an applied step.
type SchemaMigration struct {
	ID        string    `gorm:"primaryKey;size:128"`
	AppliedAt time.Time `gorm:"not null"`
}

func (SchemaMigration) TableName() string {
	return "schema_migrations"
}

// Migrate applies the given migrations in order. Each step runs in its own
// transaction together with its schema_migrations row.
func Migrate(ctx context.Context, db *gorm.DB, log *zap.Logger, migrations []Migration) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var recorded []SchemaMigration
	if err := db.Find(&recorded).Error; err != nil {
		return fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	done := make(map[string]bool, len(recorded))
	for _, r := range recorded {
		done[r.ID] = true
	}

	seen := make(map[string]bool, len(migrations))
	for _, m := range migrations {
		if seen[m.ID] {
			return fmt.Errorf("duplicate migration id %q", m.ID)
		}
		seen[m.ID] = true

		if done[m.ID] {
			continue
		}

		if m.Applied != nil && m.Applied(db.Migrator()) {
			log.Info("Migration already present in schema, recording", zap.String("id", m.ID))
			if err := db.Create(&SchemaMigration{ID: m.ID, AppliedAt: time.Now().UTC()}).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", m.ID, err)
			}
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Apply(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{ID: m.ID, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.ID, err)
		}
		log.Info("Migration applied", zap.String("id", m.ID))
	}
	return nil
}
