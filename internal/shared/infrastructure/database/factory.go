package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Connection is an open database handle. Concrete connections expose the
// native handle (*sql.DB or *pgxpool.Pool) the repositories are built on.
type Connection interface {
	Driver() Driver
	Ping(ctx context.Context) error
	Close() error
}

// Config holds database configuration.
type Config struct {
	// Driver is detected from URL when empty.
	Driver Driver
	// URL is the PostgreSQL connection string.
	URL string
	// SQLitePath is the SQLite database file, or ":memory:".
	SQLitePath string
	// MaxConns caps the PostgreSQL pool.
	MaxConns int
}

// Opener opens a connection for one driver.
type Opener func(ctx context.Context, cfg Config) (Connection, error)

var openers = map[Driver]Opener{}

// RegisterDriver makes a driver available to NewConnection. Driver packages
// register themselves from init.
func RegisterDriver(driver Driver, open Opener) {
	openers[driver] = open
}

// NewConnection opens a connection for the configured or detected driver.
func NewConnection(ctx context.Context, cfg Config) (Connection, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DetectDriver(cfg.URL)
	}
	if driver == DriverSQLite && cfg.SQLitePath == "" && cfg.URL != "" {
		cfg.SQLitePath = SQLitePathFromURL(cfg.URL)
	}

	open, ok := openers[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	return open(ctx, cfg)
}

// DefaultSQLitePath returns ~/.gymstore/gymstore.db.
func DefaultSQLitePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".gymstore", "gymstore.db")
}

// EnsureDirectory creates the parent directory of path.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
