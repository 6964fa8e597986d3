package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/orris-inc/proxypanel/internal/shared/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestNewGooseMigrator_UnknownDriver(t *testing.T) {
	_, err := NewGooseMigrator("postgres", logger.NewNopLogger())
	assert.Error(t, err)
}

func TestGooseMigrator_EmbeddedScriptsMatch(t *testing.T) {
	mysql, err := NewGooseMigrator("mysql", logger.NewNopLogger())
	require.NoError(t, err)
	lite, err := NewGooseMigrator("sqlite", logger.NewNopLogger())
	require.NoError(t, err)

	mysqlNames, err := mysql.ScriptNames()
	require.NoError(t, err)
	liteNames, err := lite.ScriptNames()
	require.NoError(t, err)

	assert.NotEmpty(t, mysqlNames)
	assert.Equal(t, mysqlNames, liteNames)
}

func TestGooseMigrator_UpAndDown(t *testing.T) {
	db := openSQLite(t)
	m, err := NewGooseMigrator("sqlite", logger.NewNopLogger())
	require.NoError(t, err)

	require.NoError(t, m.Up(db))

	version, err := m.Version(db)
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)

	for _, table := range []string{"subscriptions", "subscription_features", "subscription_usage_records"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	require.NoError(t, m.Down(db, 1))
	assert.False(t, db.Migrator().HasTable("subscription_usage_records"))

	version, err = m.Version(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	// Up is idempotent once everything is applied.
	require.NoError(t, m.Up(db))
	require.NoError(t, m.Up(db))
	assert.True(t, db.Migrator().HasTable("subscription_usage_records"))
}
