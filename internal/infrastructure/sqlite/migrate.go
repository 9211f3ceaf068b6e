package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/zjrosen/regdash/internal/log"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migrate applies every up migration newer than the recorded version, each
// in its own transaction. Versions are tracked in schema_migrations using
// the same layout as golang-migrate's database drivers.
func migrate(conn *sql.DB) (int, error) {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return 0, fmt.Errorf("load migrations: %w", err)
	}
	defer src.Close()

	if _, err := conn.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER NOT NULL, dirty INTEGER NOT NULL)`); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	current, dirty, err := schemaVersion(conn)
	if err != nil {
		return 0, err
	}
	if dirty {
		return 0, fmt.Errorf("database is dirty at version %d; restore the .bak file", current)
	}

	applied := 0
	version, err := src.First()
	for ; err == nil; version, err = src.Next(version) {
		if version <= current {
			continue
		}
		if err := applyUp(conn, src, version); err != nil {
			return applied, err
		}
		applied++
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return applied, fmt.Errorf("read migrations: %w", err)
	}
	return applied, nil
}

func schemaVersion(conn *sql.DB) (uint, bool, error) {
	var version uint
	var dirty bool
	err := conn.QueryRow(`SELECT version, dirty FROM schema_migrations LIMIT 1`).Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, nil
}

func applyUp(conn *sql.DB, src source.Driver, version uint) error {
	r, name, err := src.ReadUp(version)
	if err != nil {
		return fmt.Errorf("read migration %d: %w", version, err)
	}
	body, err := io.ReadAll(r)
	_ = r.Close()
	if err != nil {
		return fmt.Errorf("read migration %d: %w", version, err)
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", version, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(string(body)); err != nil {
		return fmt.Errorf("apply migration %d (%s): %w", version, name, err)
	}
	if _, err := tx.Exec(`DELETE FROM schema_migrations`); err != nil {
		return fmt.Errorf("record migration %d: %w", version, err)
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (version, dirty) VALUES (?, 0)`, version); err != nil {
		return fmt.Errorf("record migration %d: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %d: %w", version, err)
	}

	log.Info(log.CatDB, "Applied migration", "version", version, "name", name)
	return nil
}
