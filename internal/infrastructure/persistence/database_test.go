package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wallet/withdrawal/internal/infrastructure/config"
	"gorm.io/gorm/logger"
)

func TestNewDatabase_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}

	db, err := NewDatabase(cfg, WithGormLogger(logger.Discard))
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, config.DriverSQLite, db.Driver())
	require.NoError(t, db.Ping(context.Background()))
	require.NoError(t, db.AutoMigrate())

	assert.True(t, db.DB.Migrator().HasTable("wallet_accounts"))
	assert.True(t, db.DB.Migrator().HasTable("wallet_ledger_entries"))
	assert.True(t, db.DB.Migrator().HasTable("outbox_events"))
	assert.True(t, db.DB.Migrator().HasIndex("wallet_ledger_entries", "uq_wallet_ledger_token"))

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{Driver: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestNewDatabase_TranslatesErrors(t *testing.T) {
	db, err := NewDatabase(&config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, db.DB.Config.TranslateError)
	assert.True(t, db.DB.Config.SkipDefaultTransaction)
}
