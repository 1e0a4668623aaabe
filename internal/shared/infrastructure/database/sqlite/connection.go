// Package sqlite opens the local SQLite store on the pure Go driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/database"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

func init() {
	database.RegisterDriver(database.DriverSQLite, func(ctx context.Context, cfg database.Config) (database.Connection, error) {
		return NewConnection(ctx, cfg)
	})
}

// Connection wraps sql.DB for SQLite.
type Connection struct {
	db *sql.DB
}

// NewConnection opens the configured database file, creating its directory.
func NewConnection(ctx context.Context, cfg database.Config) (*Connection, error) {
	path := cfg.SQLitePath
	if path == "" {
		path = database.DefaultSQLitePath()
	}
	if path != MemoryPath {
		if err := database.EnsureDirectory(path); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Connection{db: db}, nil
}

// Open opens path with the store's pragmas and a single connection. SQLite
// has one writer, so every transaction is serialized on that connection; it
// also keeps an in-memory database alive and shared across calls.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	pragmas := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path != MemoryPath {
		pragmas += "&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	}

	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&" + pragmas
	} else {
		dsn += "?" + pragmas
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}
	return db, nil
}

// DB returns the underlying sql.DB.
func (c *Connection) DB() *sql.DB { return c.db }

// Driver returns the driver type.
func (c *Connection) Driver() database.Driver { return database.DriverSQLite }

// Close closes the database.
func (c *Connection) Close() error { return c.db.Close() }

// Ping verifies the database is reachable.
func (c *Connection) Ping(ctx context.Context) error { return c.db.PingContext(ctx) }
