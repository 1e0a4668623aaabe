// Package cache keeps store subscription plans in Redis. Plans are
// read-only catalog data, so a stale or missing entry never changes what a
// purchase charges beyond what the database returns.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/felixgeelhaar/gymstore/pkg/observability"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "gymstore:plan:"

// Store is the byte-level cache behind CachedPlanRepository.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisStore implements Store with go-redis.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps a redis client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// CachedPlanRepository decorates a PlanRepository with read-through caching
// of FindByID. Cache failures are logged and fall back to the database.
type CachedPlanRepository struct {
	next    domain.PlanRepository
	store   Store
	ttl     time.Duration
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewCachedPlanRepository creates the decorator.
func NewCachedPlanRepository(next domain.PlanRepository, store Store, ttl time.Duration, logger *slog.Logger, metrics observability.Metrics) *CachedPlanRepository {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &CachedPlanRepository{next: next, store: store, ttl: ttl, logger: logger, metrics: metrics}
}

type cachedPlan struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	Price        sharedDomain.Money `json:"price"`
	Description  string             `json:"description"`
	ImageURL     string             `json:"image_url"`
	PlanType     string             `json:"plan_type"`
	DurationDays int                `json:"duration_days"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func toCached(p *domain.Plan) cachedPlan {
	return cachedPlan{
		ID:           p.ID(),
		Name:         p.Name(),
		Price:        p.Price(),
		Description:  p.Description(),
		ImageURL:     p.ImageURL(),
		PlanType:     p.PlanType(),
		DurationDays: p.DurationDays(),
		CreatedAt:    p.CreatedAt(),
		UpdatedAt:    p.UpdatedAt(),
	}
}

func (c cachedPlan) toDomain() *domain.Plan {
	return domain.RehydratePlan(c.ID, c.Name, c.Price, c.Description, c.ImageURL, c.PlanType, c.DurationDays, c.CreatedAt, c.UpdatedAt)
}

func key(id uuid.UUID) string { return keyPrefix + id.String() }

// Create persists the plan and drops any stale cache entry.
func (r *CachedPlanRepository) Create(ctx context.Context, plan *domain.Plan) error {
	if err := r.next.Create(ctx, plan); err != nil {
		return err
	}
	if err := r.store.Delete(ctx, key(plan.ID())); err != nil {
		r.logger.WarnContext(ctx, "plan cache invalidation failed", "plan_id", plan.ID(), "error", err)
	}
	return nil
}

// FindByID serves from the cache, loading and filling it on a miss.
func (r *CachedPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	raw, ok, err := r.store.Get(ctx, key(id))
	if err != nil {
		r.logger.WarnContext(ctx, "plan cache read failed", "plan_id", id, "error", err)
	}
	if ok {
		var cached cachedPlan
		if err := json.Unmarshal(raw, &cached); err == nil {
			r.metrics.Counter(observability.MetricPlanCacheHits, 1)
			return cached.toDomain(), nil
		}
	}
	r.metrics.Counter(observability.MetricPlanCacheMisses, 1)

	plan, err := r.next.FindByID(ctx, id)
	if err != nil || plan == nil {
		return plan, err
	}

	if raw, err := json.Marshal(toCached(plan)); err == nil {
		if err := r.store.Set(ctx, key(id), raw, r.ttl); err != nil {
			r.logger.WarnContext(ctx, "plan cache write failed", "plan_id", id, "error", err)
		}
	}
	return plan, nil
}

// List always reads through to the database.
func (r *CachedPlanRepository) List(ctx context.Context) ([]*domain.Plan, error) {
	return r.next.List(ctx)
}
