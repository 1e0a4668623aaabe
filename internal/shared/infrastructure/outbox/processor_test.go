package outbox_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/gymstore/pkg/observability"
)

type mockPublisher struct {
	mu        sync.Mutex
	published []string
	err       error
}

func (p *mockPublisher) Publish(_ context.Context, routingKey string, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, routingKey)
	return nil
}

func (p *mockPublisher) Close() error { return nil }

type couponIssued struct {
	domain.BaseEvent
	Amount string `json:"amount"`
}

func newEvent(routingKey string) domain.DomainEvent {
	return &couponIssued{
		BaseEvent: domain.NewBaseEvent(uuid.New(), "Coupon", routingKey),
		Amount:    "5.00",
	}
}

func seed(t *testing.T, repo outbox.Repository, keys ...string) {
	t.Helper()
	events := make([]domain.DomainEvent, 0, len(keys))
	for _, key := range keys {
		events = append(events, newEvent(key))
	}
	require.NoError(t, outbox.SaveEvents(context.Background(), repo, events))
}

func TestProcessor_ProcessOnce_PublishesPending(t *testing.T) {
	repo := outbox.NewMemoryRepository()
	seed(t, repo, "loyalty.coupon.issued", "purchasing.purchase.committed")
	publisher := &mockPublisher{}
	metrics := observability.NewInMemoryMetrics()

	processor := outbox.NewProcessor(repo, publisher, outbox.DefaultProcessorConfig(), observability.DiscardLogger(), metrics)
	require.NoError(t, processor.ProcessOnce(context.Background()))

	assert.Equal(t, []string{"loyalty.coupon.issued", "purchasing.purchase.committed"}, publisher.published)
	for _, msg := range repo.Messages() {
		assert.True(t, msg.IsPublished())
	}
	assert.Equal(t, uint64(2), processor.GetStats().PublishedCount)
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricOutboxPublished, observability.T("routing_key", "loyalty.coupon.issued")))
	assert.Equal(t, float64(0), metrics.GetGauge(observability.MetricOutboxPending))

	require.NoError(t, processor.ProcessOnce(context.Background()))
	assert.Len(t, publisher.published, 2, "published messages are not relayed again")
}

func TestProcessor_FailureSchedulesRetry(t *testing.T) {
	repo := outbox.NewMemoryRepository()
	seed(t, repo, "loyalty.coupon.issued")
	publisher := &mockPublisher{err: errors.New("broker down")}

	cfg := outbox.DefaultProcessorConfig()
	cfg.MaxRetries = 3
	processor := outbox.NewProcessor(repo, publisher, cfg, observability.DiscardLogger(), nil)

	before := time.Now()
	require.NoError(t, processor.ProcessOnce(context.Background()))

	msg := repo.Messages()[0]
	assert.False(t, msg.IsPublished())
	assert.False(t, msg.IsDead())
	assert.Equal(t, 1, msg.RetryCount)
	require.NotNil(t, msg.NextRetryAt)
	assert.True(t, msg.NextRetryAt.After(before))
	require.NotNil(t, msg.LastError)
	assert.Equal(t, "broker down", *msg.LastError)

	pending, err := repo.GetUnpublished(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending, "message waits for its retry time")
}

func TestProcessor_DeadLettersAfterMaxRetries(t *testing.T) {
	repo := outbox.NewMemoryRepository()
	seed(t, repo, "loyalty.coupon.issued")
	repo.Messages()[0].RetryCount = 2

	cfg := outbox.DefaultProcessorConfig()
	cfg.MaxRetries = 3
	processor := outbox.NewProcessor(repo, &mockPublisher{err: errors.New("nope")}, cfg, observability.DiscardLogger(), nil)

	require.NoError(t, processor.ProcessOnce(context.Background()))

	msg := repo.Messages()[0]
	assert.True(t, msg.IsDead())
	assert.Equal(t, uint64(1), processor.GetStats().DeadCount)

	pending, err := repo.CountPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestProcessor_StartStop(t *testing.T) {
	repo := outbox.NewMemoryRepository()
	seed(t, repo, "membership.subscription.renewed")
	publisher := &mockPublisher{}

	cfg := outbox.DefaultProcessorConfig()
	cfg.PollInterval = 5 * time.Millisecond
	processor := outbox.NewProcessor(repo, publisher, cfg, observability.DiscardLogger(), nil)

	require.NoError(t, processor.Start(context.Background()))
	assert.True(t, processor.IsRunning())

	assert.Eventually(t, func() bool {
		publisher.mu.Lock()
		defer publisher.mu.Unlock()
		return len(publisher.published) == 1
	}, time.Second, 5*time.Millisecond)

	processor.Stop()
	assert.False(t, processor.IsRunning())
	processor.Stop()
}

func TestProcessor_Cleanup(t *testing.T) {
	repo := outbox.NewMemoryRepository()
	seed(t, repo, "a", "b")
	msgs := repo.Messages()
	old := time.Now().AddDate(0, 0, -30)
	msgs[0].PublishedAt = &old

	processor := outbox.NewProcessor(repo, &mockPublisher{}, outbox.DefaultProcessorConfig(), observability.DiscardLogger(), nil)
	deleted, err := processor.Cleanup(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), deleted)
	assert.Len(t, repo.Messages(), 1)
}
