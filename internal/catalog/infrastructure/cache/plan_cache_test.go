package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/felixgeelhaar/gymstore/pkg/observability"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPlanRepo struct {
	mock.Mock
}

func (m *mockPlanRepo) Create(ctx context.Context, plan *domain.Plan) error {
	return m.Called(ctx, plan).Error(0)
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

type memoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryStore() *memoryStore { return &memoryStore{data: map[string][]byte{}} }

func (s *memoryStore) Get(_ context.Context, k string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[k]
	return v, ok, nil
}

func (s *memoryStore) Set(_ context.Context, k string, v []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[k] = v
	return nil
}

func (s *memoryStore) Delete(_ context.Context, k string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, k)
	return nil
}

func newPlan(t *testing.T) *domain.Plan {
	t.Helper()
	plan, err := domain.NewPlan("Yearly", sharedDomain.MustParseMoney("299.00"), "", "", "YEARLY", 365)
	require.NoError(t, err)
	return plan
}

func TestCachedPlanRepository_ReadThrough(t *testing.T) {
	ctx := context.Background()
	plan := newPlan(t)
	repo := &mockPlanRepo{}
	repo.On("FindByID", mock.Anything, plan.ID()).Return(plan, nil).Once()
	metrics := observability.NewInMemoryMetrics()

	cached := NewCachedPlanRepository(repo, newMemoryStore(), time.Minute, observability.DiscardLogger(), metrics)

	first, err := cached.FindByID(ctx, plan.ID())
	require.NoError(t, err)
	second, err := cached.FindByID(ctx, plan.ID())
	require.NoError(t, err)

	assert.Equal(t, plan.ID(), second.ID())
	assert.True(t, second.Price().Equal(first.Price()))
	assert.Equal(t, 365, second.DurationDays())
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricPlanCacheMisses))
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricPlanCacheHits))
	repo.AssertExpectations(t)
}

func TestCachedPlanRepository_MissingPlanNotCached(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	repo := &mockPlanRepo{}
	repo.On("FindByID", mock.Anything, id).Return(nil, nil).Twice()
	store := newMemoryStore()

	cached := NewCachedPlanRepository(repo, store, time.Minute, observability.DiscardLogger(), nil)
	for range 2 {
		plan, err := cached.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, plan)
	}
	assert.Empty(t, store.data)
	repo.AssertExpectations(t)
}

func TestCachedPlanRepository_CreateInvalidates(t *testing.T) {
	ctx := context.Background()
	plan := newPlan(t)
	store := newMemoryStore()
	store.data[key(plan.ID())] = []byte("stale")
	repo := &mockPlanRepo{}
	repo.On("Create", mock.Anything, plan).Return(nil)

	cached := NewCachedPlanRepository(repo, store, time.Minute, observability.DiscardLogger(), nil)
	require.NoError(t, cached.Create(ctx, plan))
	assert.NotContains(t, store.data, key(plan.ID()))
}

func TestCachedPlanRepository_RedisUnavailableFallsBack(t *testing.T) {
	ctx := context.Background()
	plan := newPlan(t)
	repo := &mockPlanRepo{}
	repo.On("FindByID", mock.Anything, plan.ID()).Return(plan, nil)

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	cached := NewCachedPlanRepository(repo, NewRedisStore(client), time.Minute, observability.DiscardLogger(), nil)
	found, err := cached.FindByID(ctx, plan.ID())
	require.NoError(t, err)
	assert.Equal(t, plan.ID(), found.ID())
}
