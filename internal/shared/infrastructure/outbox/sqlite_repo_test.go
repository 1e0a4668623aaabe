package outbox_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/persistence"
)

func newSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = migrations.RunSQLite(ctx, db)
	require.NoError(t, err)
	return db
}

func TestSQLiteRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := outbox.NewSQLiteRepository(newSQLiteDB(t))
	seed(t, repo, "a", "b", "c")

	pending, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, "a", pending[0].RoutingKey)
	assert.NotZero(t, pending[0].ID)

	require.NoError(t, repo.MarkPublished(ctx, pending[0].ID))
	require.NoError(t, repo.MarkFailed(ctx, pending[1].ID, "timeout", time.Now().Add(time.Hour)))
	require.NoError(t, repo.MarkDead(ctx, pending[2].ID, "poison"))

	remaining, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	count, err := repo.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "the failed message is still pending")

	deleted, err := repo.DeleteOld(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestSQLiteRepository_SaveBatchJoinsUnitOfWork(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	repo := outbox.NewSQLiteRepository(db)
	uow := persistence.NewSQLiteUnitOfWork(db)

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	seed(t, &ctxRepo{Repository: repo, ctx: txCtx}, "a")
	require.NoError(t, uow.Rollback(txCtx))

	count, err := repo.CountPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "rolled back with the unit of work")
}

// ctxRepo forces a context onto SaveBatch so seed can run inside a tx.
type ctxRepo struct {
	outbox.Repository
	ctx context.Context
}

func (r *ctxRepo) SaveBatch(_ context.Context, msgs []*outbox.Message) error {
	return r.Repository.SaveBatch(r.ctx, msgs)
}
