// Package sqlite persists accounts and sessions for the stand-in auth API.
package sqlite

import (
	"database/sql"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/regdash/internal/accounts"
	"github.com/zjrosen/regdash/internal/log"
)

// DB owns the connection pool and hands out repositories.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens (creating if needed) the database at path, backs up an
// existing file to path+".bak", and applies pending migrations.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	if err := backup(path); err != nil {
		return nil, fmt.Errorf("backup database: %w", err)
	}

	conn, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		log.ErrorErr(log.CatDB, "Failed to open database", err, "path", path)
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		log.ErrorErr(log.CatDB, "Failed to ping database", err, "path", path)
		return nil, fmt.Errorf("ping database: %w", err)
	}

	applied, err := migrate(conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	log.Info(log.CatDB, "Opened database", "path", path, "migrations_applied", applied)
	return &DB{conn: conn, path: path}, nil
}

func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "journal_mode(wal)")
	return "file:" + path + "?" + q.Encode()
}

// backup copies an existing, non-empty database file next to itself.
func backup(path string) error {
	src, err := os.Open(path) // #nosec G304 -- path comes from config
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return nil
	}

	dst, err := os.OpenFile(path+".bak", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600) // #nosec G304
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Connection returns the underlying pool.
func (db *DB) Connection() *sql.DB {
	return db.conn
}

// AccountRepository returns the accounts store.
func (db *DB) AccountRepository() accounts.AccountRepository {
	return newAccountRepository(db.conn)
}

// SessionRepository returns the sessions store.
func (db *DB) SessionRepository() accounts.SessionRepository {
	return newSessionRepository(db.conn)
}
