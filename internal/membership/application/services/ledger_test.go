package services

import (
	"context"
	"testing"
	"time"

	catalogDomain "github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	"github.com/felixgeelhaar/gymstore/internal/membership/domain"
	sharedApplication "github.com/felixgeelhaar/gymstore/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSubscriptionRepo struct {
	mock.Mock
}

func (m *mockSubscriptionRepo) Create(ctx context.Context, s *domain.Subscription) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSubscriptionRepo) FindByAccount(ctx context.Context, accountID uuid.UUID) (*domain.Subscription, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepo) Update(ctx context.Context, s *domain.Subscription) error {
	return m.Called(ctx, s).Error(0)
}

var today = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

func TestSubscriptionLedger_Rollover(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	yesterday := sharedDomain.DateOf(today).AddDays(-1)
	sub := domain.RehydrateSubscription(uuid.New(), accountID, &domain.Period{
		Name:      "Weekly",
		StartDate: yesterday.AddDays(-7),
		EndDate:   yesterday,
	}, false, today, today)

	repo := new(mockSubscriptionRepo)
	repo.On("FindByAccount", ctx, accountID).Return(sub, nil)
	repo.On("Update", ctx, sub).Return(nil)

	plan, err := catalogDomain.NewPlan("Monthly", sharedDomain.MustParseMoney("30"), "", "", "MONTHLY", 30)
	require.NoError(t, err)

	ledger := NewSubscriptionLedger(repo, sharedApplication.FixedClock(today))
	assert.True(t, ledger.IsExpired(sub))

	got, err := ledger.Rollover(ctx, accountID, plan)
	require.NoError(t, err)
	p, _ := got.Period()
	assert.Equal(t, "2026-08-20", p.StartDate.String())
	assert.Equal(t, "2026-09-19", p.EndDate.String())
	repo.AssertExpectations(t)

	_, err = ledger.Rollover(ctx, accountID, plan)
	assert.ErrorIs(t, err, domain.ErrSubscriptionStillActive)
}

func TestSubscriptionLedger_NotFound(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	repo := new(mockSubscriptionRepo)
	repo.On("FindByAccount", ctx, accountID).Return(nil, nil)

	_, err := NewSubscriptionLedger(repo, nil).GetByAccount(ctx, accountID)
	assert.ErrorIs(t, err, domain.ErrSubscriptionNotFound)
}

func TestSubscriptionLedger_SetAutoRenewal(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	sub := domain.NewInactiveSubscription(accountID)
	repo := new(mockSubscriptionRepo)
	repo.On("FindByAccount", ctx, accountID).Return(sub, nil)
	repo.On("Update", ctx, sub).Return(nil)

	got, err := NewSubscriptionLedger(repo, nil).SetAutoRenewal(ctx, accountID, true)
	require.NoError(t, err)
	assert.True(t, got.AutoRenewal())
}
