package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type widget struct {
	ID    uint `gorm:"primaryKey"`
	Name  string
	Color string
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func widgetMigrations(calls map[string]int) []Migration {
	return []Migration{
		{
			ID:      "100_widgets",
			Applied: func(m gorm.Migrator) bool { return m.HasTable(&widget{}) },
			Apply: func(tx *gorm.DB) error {
				calls["100_widgets"]++
				return tx.Migrator().CreateTable(&widget{})
			},
		},
		{
			ID:      "200_widget_index",
			Applied: func(m gorm.Migrator) bool { return m.HasIndex(&widget{}, "idx_widgets_name") },
			Apply: func(tx *gorm.DB) error {
				calls["200_widget_index"]++
				return tx.Exec("CREATE INDEX idx_widgets_name ON widgets(name)").Error
			},
		},
	}
}

func TestMigrate_AppliesOnceAndRecords(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	calls := map[string]int{}

	require.NoError(t, Migrate(ctx, db, zap.NewNop(), widgetMigrations(calls)))
	require.NoError(t, Migrate(ctx, db, zap.NewNop(), widgetMigrations(calls)))

	assert.Equal(t, 1, calls["100_widgets"])
	assert.Equal(t, 1, calls["200_widget_index"])

	var ids []string
	require.NoError(t, db.Model(&SchemaMigration{}).Order("id").Pluck("id", &ids).Error)
	assert.Equal(t, []string{"100_widgets", "200_widget_index"}, ids)
}

func TestMigrate_RecordsExistingSchemaWithoutApplying(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Migrator().CreateTable(&widget{}))

	calls := map[string]int{}
	require.NoError(t, Migrate(context.Background(), db, zap.NewNop(), widgetMigrations(calls)))

	assert.Equal(t, 0, calls["100_widgets"])
	assert.Equal(t, 1, calls["200_widget_index"])

	var count int64
	require.NoError(t, db.Model(&SchemaMigration{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestMigrate_FailureRollsBackStep(t *testing.T) {
	db := openTestDB(t)
	boom := errors.New("boom")

	err := Migrate(context.Background(), db, zap.NewNop(), []Migration{
		{
			ID: "100_broken",
			Apply: func(tx *gorm.DB) error {
				if err := tx.Migrator().CreateTable(&widget{}); err != nil {
					return err
				}
				return boom
			},
		},
	})
	require.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&SchemaMigration{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.False(t, db.Migrator().HasTable(&widget{}))
}

func TestMigrate_DuplicateID(t *testing.T) {
	db := openTestDB(t)
	noop := func(tx *gorm.DB) error { return nil }
	err := Migrate(context.Background(), db, zap.NewNop(), []Migration{
		{ID: "100", Apply: noop},
		{ID: "100", Apply: noop},
	})
	assert.ErrorContains(t, err, "duplicate migration id")
}
