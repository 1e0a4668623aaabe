package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/database"
)

func TestNewConnection_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "store.db")

	conn, err := NewConnection(ctx, database.Config{SQLitePath: path})
	require.NoError(t, err)
	defer conn.Close()

	assert.NoError(t, conn.Ping(ctx))
	assert.Equal(t, database.DriverSQLite, conn.Driver())
	assert.FileExists(t, path)
}

func TestNewConnection_ViaFactory(t *testing.T) {
	ctx := context.Background()

	conn, err := database.NewConnection(ctx, database.Config{URL: "sqlite://" + filepath.Join(t.TempDir(), "store.db")})
	require.NoError(t, err)
	defer conn.Close()

	_, ok := conn.(*Connection)
	assert.True(t, ok)
}

func TestOpen_MemorySharedAcrossCalls(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, MemoryPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, `CREATE TABLE items (id TEXT PRIMARY KEY, qty INTEGER NOT NULL)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO items (id, qty) VALUES (?, ?)`, "a", 3)
	require.NoError(t, err)

	var qty int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT qty FROM items WHERE id = ?`, "a").Scan(&qty))
	assert.Equal(t, 3, qty)
}

func TestOpen_ForeignKeysEnforced(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, MemoryPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, `
		CREATE TABLE parents (id TEXT PRIMARY KEY);
		CREATE TABLE children (id TEXT PRIMARY KEY, parent_id TEXT NOT NULL REFERENCES parents(id));
	`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO children (id, parent_id) VALUES ('c', 'missing')`)
	assert.Error(t, err)
}

func TestOpen_ConditionalDecrement(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, MemoryPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(ctx, `CREATE TABLE stock (id TEXT PRIMARY KEY, qty INTEGER NOT NULL CHECK (qty >= 0))`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO stock (id, qty) VALUES ('p', 3)`)
	require.NoError(t, err)

	res, err := db.ExecContext(ctx, `UPDATE stock SET qty = qty - ? WHERE id = ? AND qty >= ?`, 5, "p", 5)
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Zero(t, n)
}
