package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupCatalogTestDB creates an in-memory SQLite database with the schema applied.
func setupCatalogTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	sqlDB, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	_, err = migrations.RunSQLite(ctx, sqlDB)
	require.NoError(t, err)
	return sqlDB
}

func newTestProduct(t *testing.T, stock int, price string, categoryID *uuid.UUID) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct("Resistance Band", "Medium", stock, sharedDomain.MustParseMoney(price), categoryID)
	require.NoError(t, err)
	return p
}

func TestSQLiteProductRepository_CreateAndFind(t *testing.T) {
	sqlDB := setupCatalogTestDB(t)
	ctx := context.Background()

	categories := NewSQLiteCategoryRepository(sqlDB)
	category, err := domain.NewCategory("Accessories", "", "")
	require.NoError(t, err)
	require.NoError(t, categories.Create(ctx, category))

	repo := NewSQLiteProductRepository(sqlDB)
	categoryID := category.ID()
	product := newTestProduct(t, 10, "19.99", &categoryID)
	_, err = product.AddImage("https://cdn.example.com/band.jpg")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, product))

	found, err := repo.FindByID(ctx, product.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Resistance Band", found.Name())
	assert.Equal(t, 10, found.Stock())
	assert.True(t, found.Price().Equal(sharedDomain.MustParseMoney("19.99")))
	require.NotNil(t, found.CategoryID())
	assert.Equal(t, category.ID(), *found.CategoryID())
	require.Len(t, found.Images(), 1)
	assert.Equal(t, "https://cdn.example.com/band.jpg", found.Images()[0].URL())
	assert.Empty(t, found.DomainEvents())

	missing, err := repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLiteProductRepository_DecrementStock(t *testing.T) {
	sqlDB := setupCatalogTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteProductRepository(sqlDB)

	product := newTestProduct(t, 3, "5", nil)
	require.NoError(t, repo.Create(ctx, product))

	ok, err := repo.DecrementStock(ctx, product.ID(), 5)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.DecrementStock(ctx, product.ID(), 3)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DecrementStock(ctx, product.ID(), 1)
	require.NoError(t, err)
	assert.False(t, ok)

	found, err := repo.FindByID(ctx, product.ID())
	require.NoError(t, err)
	assert.Equal(t, 0, found.Stock())

	require.NoError(t, repo.IncrementStock(ctx, product.ID(), 4))
	found, err = repo.FindByID(ctx, product.ID())
	require.NoError(t, err)
	assert.Equal(t, 4, found.Stock())

	assert.ErrorIs(t, repo.IncrementStock(ctx, uuid.New(), 1), domain.ErrProductNotFound)
}

func TestSQLiteProductRepository_List(t *testing.T) {
	sqlDB := setupCatalogTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteProductRepository(sqlDB)

	empty, err := domain.NewProduct("Chalk", "", 0, sharedDomain.MustParseMoney("3"), nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, empty))
	require.NoError(t, repo.Create(ctx, newTestProduct(t, 2, "10", nil)))

	all, err := repo.List(ctx, domain.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Chalk", all[0].Name())

	inStock, err := repo.List(ctx, domain.ProductFilter{InStock: true})
	require.NoError(t, err)
	require.Len(t, inStock, 1)
	assert.Equal(t, "Resistance Band", inStock[0].Name())

	page, err := repo.List(ctx, domain.ProductFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Resistance Band", page[0].Name())
}

func TestSQLiteCategoryRepository_UniqueSlug(t *testing.T) {
	sqlDB := setupCatalogTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteCategoryRepository(sqlDB)

	first, err := domain.NewCategory("Clothing", "", "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	dup, err := domain.NewCategory("clothing", "", "")
	require.NoError(t, err)
	err = repo.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "clothing", list[0].Slug())
}

func TestSQLitePlanRepository(t *testing.T) {
	sqlDB := setupCatalogTestDB(t)
	ctx := context.Background()
	repo := NewSQLitePlanRepository(sqlDB)

	plan, err := domain.NewPlan("Quarterly", sharedDomain.MustParseMoney("79.50"), "3 months", "", "QUARTERLY", 90)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, plan))

	found, err := repo.FindByID(ctx, plan.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 90, found.DurationDays())
	assert.Equal(t, "79.50", found.Price().String())
	assert.Equal(t, "QUARTERLY", found.PlanType())

	plans, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 1)

	missing, err := repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}
