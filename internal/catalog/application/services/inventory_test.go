package services

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, f domain.ProductFilter) ([]*domain.Product, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *mockProductRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	args := m.Called(ctx, id, qty)
	return args.Bool(0), args.Error(1)
}

func (m *mockProductRepo) IncrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	return m.Called(ctx, id, qty).Error(0)
}

func (m *mockProductRepo) AddImage(ctx context.Context, img *domain.Image) error {
	return m.Called(ctx, img).Error(0)
}

type mockPlanRepo struct {
	mock.Mock
}

func (m *mockPlanRepo) Create(ctx context.Context, p *domain.Plan) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPlanRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Plan), args.Error(1)
}

func (m *mockPlanRepo) List(ctx context.Context) ([]*domain.Plan, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*domain.Plan), args.Error(1)
}

func product(t *testing.T, stock int) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct("Dumbbell", "", stock, sharedDomain.MustParseMoney("20"), nil)
	require.NoError(t, err)
	return p
}

func TestInventory_ReserveStock(t *testing.T) {
	ctx := context.Background()
	p := product(t, 10)
	repo := &mockProductRepo{}
	repo.On("FindByID", ctx, p.ID()).Return(p, nil)
	repo.On("DecrementStock", ctx, p.ID(), 2).Return(true, nil)

	reserved, err := NewInventory(repo, &mockPlanRepo{}).ReserveStock(ctx, p.ID(), 2)
	require.NoError(t, err)
	assert.Equal(t, 8, reserved.Stock())
	repo.AssertExpectations(t)
}

func TestInventory_ReserveStock_Insufficient(t *testing.T) {
	ctx := context.Background()
	stale := product(t, 5)
	current := domain.RehydrateProduct(stale.ID(), "Dumbbell", "", 3, stale.Price(), nil, nil, stale.CreatedAt(), stale.UpdatedAt())

	repo := &mockProductRepo{}
	repo.On("FindByID", ctx, stale.ID()).Return(stale, nil).Once()
	repo.On("DecrementStock", ctx, stale.ID(), 5).Return(false, nil)
	repo.On("FindByID", ctx, stale.ID()).Return(current, nil).Once()

	_, err := NewInventory(repo, &mockPlanRepo{}).ReserveStock(ctx, stale.ID(), 5)

	require.ErrorIs(t, err, domain.ErrNotEnoughStock)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Remaining)
	assert.Equal(t, "Only left 3 unit(s) of Dumbbell", err.Error())
}

func TestInventory_ReserveStock_Errors(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	repo := &mockProductRepo{}
	repo.On("FindByID", ctx, id).Return(nil, nil)
	inventory := NewInventory(repo, &mockPlanRepo{})

	_, err := inventory.ReserveStock(ctx, id, 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = inventory.ReserveStock(ctx, id, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = inventory.ReserveStock(ctx, id, domain.MaxQuantity+1)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	repo.AssertNumberOfCalls(t, "FindByID", 1)

	boom := errors.New("disk full")
	broken := &mockProductRepo{}
	broken.On("FindByID", ctx, id).Return(nil, boom)
	_, err = NewInventory(broken, &mockPlanRepo{}).ReserveStock(ctx, id, 1)
	assert.ErrorIs(t, err, boom)
}

func TestInventory_GetPlan(t *testing.T) {
	ctx := context.Background()
	plan, err := domain.NewPlan("Monthly", sharedDomain.MustParseMoney("30"), "", "", "MONTHLY", 30)
	require.NoError(t, err)

	plans := &mockPlanRepo{}
	plans.On("FindByID", ctx, plan.ID()).Return(plan, nil)
	missing := uuid.New()
	plans.On("FindByID", ctx, missing).Return(nil, nil)

	inventory := NewInventory(&mockProductRepo{}, plans)
	got, err := inventory.GetPlan(ctx, plan.ID())
	require.NoError(t, err)
	assert.Equal(t, plan, got)

	_, err = inventory.GetPlan(ctx, missing)
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
}
