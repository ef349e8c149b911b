package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

// newTestFileDB opens a file-backed sqlite database for tests that exercise
// concurrent writers. Writes queue on the file lock instead of failing.
func newTestFileDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s/ledger.db?_busy_timeout=10000&_txlock=immediate", t.TempDir())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite file db")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createWalletTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE wallets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		balance NUMERIC NOT NULL DEFAULT 0,
		clearance_threshold NUMERIC,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		version INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createWalletTransactionTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE wallet_transactions (
		id TEXT PRIMARY KEY,
		wallet_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		direction TEXT,
		amount NUMERIC NOT NULL,
		previous_balance NUMERIC NOT NULL,
		new_balance NUMERIC NOT NULL,
		description TEXT,
		reference TEXT,
		reference_type TEXT,
		processed_by TEXT,
		created_at DATETIME
	);`)
}

func createWalletSettingsTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE wallet_settings (
		id INTEGER PRIMARY KEY,
		default_clearance_threshold NUMERIC NOT NULL DEFAULT 0,
		allow_negative_balance BOOLEAN NOT NULL DEFAULT 1,
		auto_clearance_enabled BOOLEAN NOT NULL DEFAULT 1,
		max_negative_limit NUMERIC,
		notification_enabled BOOLEAN NOT NULL DEFAULT 1,
		low_balance_threshold NUMERIC NOT NULL DEFAULT 0,
		updated_at DATETIME
	);`)
}

func createLedgerTables(t *testing.T, db *gorm.DB) {
	createWalletTable(t, db)
	createWalletTransactionTable(t, db)
	createWalletSettingsTable(t, db)
}
