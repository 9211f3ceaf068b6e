package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/regdash/internal/accounts"
	"github.com/zjrosen/regdash/internal/registration"
)

// TestNewDB_CreatesDirectory verifies that NewDB creates the parent directory if missing.
func TestNewDB_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "test.db")

	db, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db.Close()

	info, err := os.Stat(filepath.Dir(dbPath))
	require.NoError(t, err)
	require.True(t, info.IsDir())

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), info.Mode().Perm(), "Directory should have 0700 permissions")
	}
}

// TestNewDB_RunsMigrations verifies that both tables exist and the version is recorded.
func TestNewDB_RunsMigrations(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"users", "sessions"} {
		var name string
		err := db.conn.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "%s table should exist after migrations", table)
	}

	version, dirty, err := schemaVersion(db.conn)
	require.NoError(t, err)
	require.False(t, dirty)
	require.Equal(t, uint(2), version)
}

// TestNewDB_ReopenIsIdempotent verifies that migrations are not re-applied.
func TestNewDB_ReopenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db1, err := NewDB(dbPath)
	require.NoError(t, err)
	require.NoError(t, db1.Close())

	db2, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db2.Close()

	var rows int
	require.NoError(t, db2.conn.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&rows))
	require.Equal(t, 1, rows)
}

// TestNewDB_DirtyDatabaseRefusesToOpen verifies that a half-applied migration stops startup.
func TestNewDB_DirtyDatabaseRefusesToOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDB(dbPath)
	require.NoError(t, err)
	_, err = db.conn.Exec("UPDATE schema_migrations SET dirty = 1")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = NewDB(dbPath)
	require.Error(t, err)
	require.Contains(t, err.Error(), "dirty")
}

// TestNewDB_PreMigrationBackup verifies that a .bak file is created when a database already exists.
func TestNewDB_PreMigrationBackup(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db1, err := NewDB(dbPath)
	require.NoError(t, err)
	now := time.Now()
	err = db1.AccountRepository().Create(context.Background(),
		accounts.NewAccount(registration.Payload{
			Name: "Jane", Username: "janed", Email: "jane@example.com",
			Gender: "female", Country: "Canada", Hobbies: []string{"Reading"},
		}, []byte("hash"), now))
	require.NoError(t, err)
	require.NoError(t, db1.Close())

	_, err = os.Stat(dbPath + ".bak")
	require.True(t, os.IsNotExist(err), "first open has nothing to back up")

	db2, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db2.Close()

	info, err := os.Stat(dbPath + ".bak")
	require.NoError(t, err, "Backup file should exist after second NewDB")
	require.Greater(t, info.Size(), int64(0))
}

// TestNewDB_Pragmas verifies the connection settings.
func TestNewDB_Pragmas(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	var journalMode string
	require.NoError(t, db.conn.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	require.Equal(t, "wal", journalMode)

	var foreignKeys int
	require.NoError(t, db.conn.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
	require.Equal(t, 1, foreignKeys)

	var busyTimeout int
	require.NoError(t, db.conn.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	require.Equal(t, 5000, busyTimeout)
}

// TestDB_Close verifies that the connection closes cleanly.
func TestDB_Close(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	require.NoError(t, db.Close())
	require.Error(t, db.Connection().Ping(), "Ping should fail after Close")
}
