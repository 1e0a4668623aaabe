package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/felixgeelhaar/gymstore/internal/accounts/domain"
	loyaltyDomain "github.com/felixgeelhaar/gymstore/internal/loyalty/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAccountsTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = migrations.RunSQLite(ctx, db)
	require.NoError(t, err)
	return db
}

func newUser(t *testing.T, email string, role domain.Role) *domain.User {
	t.Helper()
	e, err := domain.NewEmail(email)
	require.NoError(t, err)
	n, err := domain.NewFullName("Sam Lifter")
	require.NoError(t, err)
	return domain.NewUser(e, n, role)
}

func TestSQLiteUserRepository(t *testing.T) {
	db := setupAccountsTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteUserRepository(db)

	user := newUser(t, "sam@example.com", domain.RoleAdmin)
	require.NoError(t, repo.Create(ctx, user))

	byID, err := repo.FindByID(ctx, user.ID())
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "Sam Lifter", byID.FullName().String())
	assert.True(t, byID.Role().IsAdmin())

	byEmail, err := repo.FindByEmail(ctx, user.Email())
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID(), byEmail.ID())

	missing, err := repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = repo.Create(ctx, newUser(t, "sam@example.com", domain.RoleCustomer))
	assert.True(t, database.IsUniqueViolation(err))
}

func TestSQLiteAccountRepository_OptimisticUpdate(t *testing.T) {
	db := setupAccountsTestDB(t)
	ctx := context.Background()
	users := NewSQLiteUserRepository(db)
	repo := NewSQLiteAccountRepository(db)

	user := newUser(t, "kim@example.com", domain.RoleCustomer)
	require.NoError(t, users.Create(ctx, user))
	account, err := domain.NewAccount(user.ID(), loyaltyDomain.TierPlatinum, sharedDomain.MustParseMoney("100"))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, account))

	first, err := repo.FindByID(ctx, account.ID())
	require.NoError(t, err)
	second, err := repo.FindByUserID(ctx, user.ID())
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, loyaltyDomain.TierPlatinum, first.Tier())
	assert.Equal(t, 1, first.Version())

	first.Debit(sharedDomain.MustParseMoney("30"))
	require.NoError(t, repo.UpdateBalance(ctx, first))
	assert.Equal(t, 2, first.Version())

	// second still holds version 1.
	second.Debit(sharedDomain.MustParseMoney("80"))
	assert.ErrorIs(t, repo.UpdateBalance(ctx, second), sharedDomain.ErrConcurrentModification)

	stored, err := repo.FindByID(ctx, account.ID())
	require.NoError(t, err)
	assert.Equal(t, "70.00", stored.CreditBalance().String())
	assert.Equal(t, 2, stored.Version())
}
