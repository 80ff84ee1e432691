// Package sqlite implements the S module's persistence contracts
// (internal/store) against SQLite, following the teacher's embedded-schema,
// pooled-connection, context-scoped-call pattern.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/catalinplesu/timesheet/internal/platform/logger"
)

//go:embed schema.sql
var schemaFS embed.FS

// DB wraps a pooled SQLite connection and exposes the store.Beginner
// contract via the repositories built on top of it.
type DB struct {
	db *sql.DB
}

// ConnectionConfig configures a DB's underlying connection pool.
type ConnectionConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConnectionConfig returns sensible pool defaults for a single-user
// workload (spec §1: "single-user, personal").
func DefaultConnectionConfig(path string) *ConnectionConfig {
	return &ConnectionConfig{
		Path:            path,
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
	}
}

// Open creates the database file's directory if needed, opens a pooled
// SQLite connection, and applies the embedded schema.
func Open(cfg *ConnectionConfig) (*DB, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite3", cfg.Path+
		"?_foreign_keys=on"+
		"&_journal_mode=WAL"+
		"&_synchronous=NORMAL"+
		"&_txlock=immediate"+
		"&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	db := &DB{db: sqlDB}
	if err := db.applySchema(); err != nil {
		sqlDB.Close()
		return nil, err
	}

	logger.Named("store").Info().Str("path", cfg.Path).Msg("database opened")
	return db, nil
}

func (d *DB) applySchema() error {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read embedded schema: %w", err)
	}
	if _, err := d.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (d *DB) Close() error { return d.db.Close() }

// querier abstracts over *sql.DB and *sql.Tx so repositories can run either
// outside or inside a transaction with the same code.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
