package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/felixgeelhaar/gymstore/internal/loyalty/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/migrations"
	sharedPersistence "github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLoyaltyTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	sqlDB, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	_, err = migrations.RunSQLite(ctx, sqlDB)
	require.NoError(t, err)
	return sqlDB
}

// insertAccount creates the user and account rows coupons reference.
func insertAccount(t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()
	now := sharedPersistence.SQLiteTime(time.Now())
	userID, accountID := uuid.New(), uuid.New()

	_, err := db.Exec(`INSERT INTO users (id, email, full_name, role, created_at, updated_at) VALUES (?, ?, 'Test', 'customer', ?, ?)`,
		userID.String(), userID.String()+"@example.com", now, now)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO accounts (id, user_id, credit_balance, rank, version, created_at, updated_at) VALUES (?, ?, '0', 'BRONZE', 1, ?, ?)`,
		accountID.String(), userID.String(), now, now)
	require.NoError(t, err)
	return accountID
}

func newCoupon(t *testing.T, accountID uuid.UUID, amount string, due sharedDomain.Date) *domain.Coupon {
	t.Helper()
	c, err := domain.NewCoupon(accountID, sharedDomain.MustParseMoney(amount), sharedDomain.NewDate(2026, 1, 1), due)
	require.NoError(t, err)
	return c
}

func TestSQLiteCouponRepository_CreateAndFind(t *testing.T) {
	db := setupLoyaltyTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteCouponRepository(db)
	accountID := insertAccount(t, db)

	c := newCoupon(t, accountID, "12.50", sharedDomain.NewDate(2026, 1, 15))
	require.NoError(t, repo.Create(ctx, c))

	found, err := repo.FindByID(ctx, c.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, accountID, found.AccountID())
	assert.Equal(t, "12.50", found.Amount().String())
	assert.Equal(t, "2026-01-01", found.IssueDate().String())
	assert.Equal(t, "2026-01-15", found.DueDate().String())
	assert.False(t, found.IsSpent())
	assert.Nil(t, found.PurchaseID())

	missing, err := repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLiteCouponRepository_MarkSpentOnce(t *testing.T) {
	db := setupLoyaltyTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteCouponRepository(db)

	c := newCoupon(t, insertAccount(t, db), "5", sharedDomain.NewDate(2026, 2, 1))
	require.NoError(t, repo.Create(ctx, c))

	ok, err := repo.MarkSpent(ctx, c.ID())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkSpent(ctx, c.ID())
	require.NoError(t, err)
	assert.False(t, ok, "second redemption must not match")

	ok, err = repo.MarkSpent(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)

	found, err := repo.FindByID(ctx, c.ID())
	require.NoError(t, err)
	assert.True(t, found.IsSpent())
}

func TestSQLiteCouponRepository_ListAndLink(t *testing.T) {
	db := setupLoyaltyTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteCouponRepository(db)
	accountID := insertAccount(t, db)
	other := insertAccount(t, db)

	late := newCoupon(t, accountID, "3", sharedDomain.NewDate(2026, 3, 1))
	early := newCoupon(t, accountID, "4", sharedDomain.NewDate(2026, 2, 1))
	foreign := newCoupon(t, other, "9", sharedDomain.NewDate(2026, 2, 1))
	for _, c := range []*domain.Coupon{late, early, foreign} {
		require.NoError(t, repo.Create(ctx, c))
	}

	coupons, err := repo.ListByAccount(ctx, accountID)
	require.NoError(t, err)
	require.Len(t, coupons, 2)
	assert.Equal(t, early.ID(), coupons[0].ID())
	assert.Equal(t, late.ID(), coupons[1].ID())

	purchaseID := uuid.New()
	now := sharedPersistence.SQLiteTime(time.Now())
	_, err = db.Exec(`INSERT INTO purchases (id, account_id, purchase_date, subscription_price, total, discount, total_after_discounts) VALUES (?, ?, ?, '0', '7', '7', '0')`,
		purchaseID.String(), accountID.String(), now)
	require.NoError(t, err)

	require.NoError(t, repo.LinkToPurchase(ctx, []uuid.UUID{early.ID(), late.ID()}, purchaseID))
	require.NoError(t, repo.LinkToPurchase(ctx, nil, purchaseID))

	found, err := repo.FindByID(ctx, late.ID())
	require.NoError(t, err)
	require.NotNil(t, found.PurchaseID())
	assert.Equal(t, purchaseID, *found.PurchaseID())

	untouched, err := repo.FindByID(ctx, foreign.ID())
	require.NoError(t, err)
	assert.Nil(t, untouched.PurchaseID())
}

func TestSQLiteCouponRepository_RollsBackWithUnitOfWork(t *testing.T) {
	db := setupLoyaltyTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteCouponRepository(db)
	uow := sharedPersistence.NewSQLiteUnitOfWork(db)

	c := newCoupon(t, insertAccount(t, db), "5", sharedDomain.NewDate(2026, 2, 1))
	require.NoError(t, repo.Create(ctx, c))

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	ok, err := repo.MarkSpent(txCtx, c.ID())
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, uow.Rollback(txCtx))

	found, err := repo.FindByID(ctx, c.ID())
	require.NoError(t, err)
	assert.False(t, found.IsSpent())
}
