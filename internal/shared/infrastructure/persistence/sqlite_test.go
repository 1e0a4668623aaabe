package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedApplication "github.com/felixgeelhaar/gymstore/internal/shared/application"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/database/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sqlite.Open(context.Background(), sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE balances (id TEXT PRIMARY KEY, amount TEXT NOT NULL)`)
	require.NoError(t, err)
	return db
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM balances`).Scan(&n))
	return n
}

func TestSQLiteUnitOfWork_CommitAndRollback(t *testing.T) {
	db := setupTestDB(t)
	uow := NewSQLiteUnitOfWork(db)
	ctx := context.Background()

	err := sharedApplication.WithUnitOfWork(ctx, uow, func(txCtx context.Context) error {
		_, err := SQLiteExecutor(txCtx, db).ExecContext(txCtx, `INSERT INTO balances VALUES ('a', '10.00')`)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countRows(t, db))

	failure := errors.New("insufficient credit")
	err = sharedApplication.WithUnitOfWork(ctx, uow, func(txCtx context.Context) error {
		if _, err := SQLiteExecutor(txCtx, db).ExecContext(txCtx, `INSERT INTO balances VALUES ('b', '5.00')`); err != nil {
			return err
		}
		return failure
	})
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 1, countRows(t, db))
}

func TestSQLiteUnitOfWork_NestedJoinsOuter(t *testing.T) {
	db := setupTestDB(t)
	uow := NewSQLiteUnitOfWork(db)

	outerCtx, err := uow.Begin(context.Background())
	require.NoError(t, err)
	outer, ok := SQLiteTxInfoFromContext(outerCtx)
	require.True(t, ok)
	assert.True(t, outer.Owned)

	innerCtx, err := uow.Begin(outerCtx)
	require.NoError(t, err)
	inner, ok := SQLiteTxInfoFromContext(innerCtx)
	require.True(t, ok)
	assert.False(t, inner.Owned)
	assert.Same(t, outer.Tx, inner.Tx)

	_, err = SQLiteExecutor(innerCtx, db).ExecContext(innerCtx, `INSERT INTO balances VALUES ('a', '1.00')`)
	require.NoError(t, err)

	// The inner commit is a no-op; the outer rollback discards the insert.
	require.NoError(t, uow.Commit(innerCtx))
	require.NoError(t, uow.Rollback(outerCtx))

	assert.Equal(t, 0, countRows(t, db))
}

func TestSQLiteUnitOfWork_NoTransaction(t *testing.T) {
	uow := NewSQLiteUnitOfWork(setupTestDB(t))

	assert.ErrorIs(t, uow.Commit(context.Background()), ErrNoTransaction)
	assert.ErrorIs(t, uow.Rollback(context.Background()), ErrNoTransaction)
}

func TestSQLiteExecutor_FallsBackToDB(t *testing.T) {
	db := setupTestDB(t)

	assert.Same(t, db, SQLiteExecutor(context.Background(), db))
}

func TestSQLiteTime_RoundTrip(t *testing.T) {
	ts := time.Date(2024, 6, 1, 9, 30, 0, 1500, time.FixedZone("CET", 3600))

	formatted := SQLiteTime(ts)
	assert.Equal(t, "2024-06-01T08:30:00.000001Z", formatted)

	parsed, err := ParseSQLiteTime(formatted)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(ts.Truncate(time.Microsecond)))

	earlier := SQLiteTime(ts.Add(-time.Second))
	assert.Less(t, earlier, formatted)
}

func TestSQLiteNullTime(t *testing.T) {
	assert.False(t, SQLiteNullTime(nil).Valid)

	parsed, err := ParseSQLiteNullTime(sql.NullString{})
	require.NoError(t, err)
	assert.Nil(t, parsed)
}
