package models

import (
	"context"
	"testing"

	"github.com/brainfuel/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestOpenDB_UnsupportedDriver(t *testing.T) {
	_, err := OpenDB(&config.DatabaseConfig{Driver: "oracle", DSN: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		dsn      string
		expected string
	}{
		{"brainfuel.db", "brainfuel.db?_foreign_keys=1"},
		{"file:test.db?cache=shared", "file:test.db?cache=shared&_foreign_keys=1"},
		{"test.db?_foreign_keys=on", "test.db?_foreign_keys=on"},
		{"test.db?_fk=1", "test.db?_fk=1"},
		{"", "brainfuel.db?_foreign_keys=1"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, sqliteDSN(tt.dsn), "dsn %q", tt.dsn)
	}
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, gormLogLevel("silent"))
	assert.Equal(t, logger.Error, gormLogLevel("ERROR"))
	assert.Equal(t, logger.Info, gormLogLevel("info"))
	assert.Equal(t, logger.Warn, gormLogLevel(""))
}

func TestSeedDefaultData_Idempotent(t *testing.T) {
	gw, _ := newTestGateway(t)
	db, err := gw.DB()
	require.NoError(t, err)

	require.NoError(t, SeedDefaultData(db))
	require.NoError(t, SeedDefaultData(db))

	var count int64
	require.NoError(t, db.Model(&Category{}).Count(&count).Error)
	assert.Equal(t, int64(len(DefaultCategories)), count)

	for _, c := range DefaultCategories {
		assert.Zero(t, c.ID, "seeding must not mutate the package-level vocabulary")
	}
}

func TestAutoMigrate_CreatesTables(t *testing.T) {
	gw, _ := newTestGateway(t)
	db, err := gw.DB()
	require.NoError(t, err)

	for _, table := range []string{"users", "categories", "projects", "project_tags", "project_support"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestOpenDB_SQLiteLowerFoldsUnicode(t *testing.T) {
	gw, _ := newTestGateway(t)
	ctx := context.Background()

	var row struct {
		Folded  string
		Missing *string
	}
	found, err := gw.QueryOne(ctx, &row, "SELECT LOWER('École ÀÖ Robot') AS folded, LOWER(NULL) AS missing")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "école àö robot", row.Folded)
	assert.Nil(t, row.Missing)
}
