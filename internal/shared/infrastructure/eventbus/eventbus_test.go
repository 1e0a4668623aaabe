package eventbus_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/gymstore/pkg/observability"
)

type mockConsumer struct {
	mu         sync.Mutex
	eventTypes []string
	events     []*eventbus.Envelope
	err        error
}

func (c *mockConsumer) EventTypes() []string { return c.eventTypes }

func (c *mockConsumer) Handle(_ context.Context, event *eventbus.Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return c.err
}

type stubPublisher struct {
	calls int
	err   error
}

func (p *stubPublisher) Publish(context.Context, string, []byte) error {
	p.calls++
	return p.err
}

func (p *stubPublisher) Close() error { return nil }

type sampleEvent struct {
	domain.BaseEvent
	Total string `json:"total"`
}

func TestNewEnvelope(t *testing.T) {
	aggregateID := uuid.New()
	event := &sampleEvent{
		BaseEvent: domain.NewBaseEvent(aggregateID, "Purchase", "purchasing.purchase.committed"),
		Total:     "10.00",
	}

	env, err := eventbus.NewEnvelope(event)
	require.NoError(t, err)

	assert.Equal(t, event.EventID(), env.EventID)
	assert.Equal(t, aggregateID, env.AggregateID)
	assert.Equal(t, "purchasing.purchase.committed", env.RoutingKey)

	var body struct {
		Total string `json:"total"`
	}
	require.NoError(t, env.DecodePayload(&body))
	assert.Equal(t, "10.00", body.Total)
}

func TestConsumerRegistry_DispatchToMultipleConsumers(t *testing.T) {
	registry := eventbus.NewConsumerRegistry(observability.DiscardLogger())
	first := &mockConsumer{eventTypes: []string{"loyalty.coupon.issued"}}
	second := &mockConsumer{eventTypes: []string{"loyalty.coupon.issued", "loyalty.coupon.redeemed"}}
	registry.Register(first)
	registry.Register(second)

	assert.Equal(t, 3, registry.ConsumerCount())
	assert.Len(t, registry.GetConsumers("loyalty.coupon.issued"), 2)

	err := registry.Dispatch(context.Background(), &eventbus.Envelope{RoutingKey: "loyalty.coupon.issued"})
	require.NoError(t, err)
	assert.Len(t, first.events, 1)
	assert.Len(t, second.events, 1)
}

func TestConsumerRegistry_FailureDoesNotStopOthers(t *testing.T) {
	registry := eventbus.NewConsumerRegistry(observability.DiscardLogger())
	boom := errors.New("boom")
	failing := &mockConsumer{eventTypes: []string{"x"}, err: boom}
	ok := &mockConsumer{eventTypes: []string{"x"}}
	registry.Register(failing)
	registry.Register(ok)

	err := registry.Dispatch(context.Background(), &eventbus.Envelope{RoutingKey: "x"})

	assert.ErrorIs(t, err, boom)
	assert.Len(t, ok.events, 1)
}

func TestConsumerRegistry_NoConsumers(t *testing.T) {
	registry := eventbus.NewConsumerRegistry(observability.DiscardLogger())
	assert.NoError(t, registry.Dispatch(context.Background(), &eventbus.Envelope{RoutingKey: "unknown"}))
}

func TestInProcessPublisher_Publish(t *testing.T) {
	registry := eventbus.NewConsumerRegistry(observability.DiscardLogger())
	var received []*eventbus.Envelope
	registry.Register(eventbus.ConsumerFunc{
		Types: []string{"membership.subscription.renewed"},
		Fn: func(_ context.Context, event *eventbus.Envelope) error {
			received = append(received, event)
			return nil
		},
	})
	publisher := eventbus.NewInProcessPublisher(registry, observability.DiscardLogger())

	env := eventbus.Envelope{EventID: uuid.New(), OccurredAt: time.Now().UTC()}
	payload, err := json.Marshal(env)
	require.NoError(t, err)

	require.NoError(t, publisher.Publish(context.Background(), "membership.subscription.renewed", payload))
	require.Len(t, received, 1)
	assert.Equal(t, env.EventID, received[0].EventID)
	assert.Equal(t, "membership.subscription.renewed", received[0].RoutingKey)
}

func TestInProcessPublisher_InvalidPayload(t *testing.T) {
	publisher := eventbus.NewInProcessPublisher(eventbus.NewConsumerRegistry(nil), nil)
	assert.Error(t, publisher.Publish(context.Background(), "x", []byte("{")))
}

func TestBreakerPublisher_OpensAfterThreshold(t *testing.T) {
	next := &stubPublisher{err: errors.New("broker down")}
	publisher := eventbus.NewBreakerPublisher(next, eventbus.BreakerConfig{
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
	}, observability.DiscardLogger())

	ctx := context.Background()
	assert.Error(t, publisher.Publish(ctx, "k", nil))
	assert.Error(t, publisher.Publish(ctx, "k", nil))
	assert.Equal(t, gobreaker.StateOpen, publisher.State())

	err := publisher.Publish(ctx, "k", nil)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, next.calls)
}

func TestBreakerPublisher_PassesThrough(t *testing.T) {
	next := &stubPublisher{}
	publisher := eventbus.NewBreakerPublisher(next, eventbus.BreakerConfig{}, nil)

	require.NoError(t, publisher.Publish(context.Background(), "k", []byte("{}")))
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, gobreaker.StateClosed, publisher.State())
}

func TestLogPublisher(t *testing.T) {
	publisher := eventbus.NewLogPublisher(observability.DiscardLogger())
	assert.NoError(t, publisher.Publish(context.Background(), "k", []byte("{}")))
	assert.NoError(t, publisher.Close())
}
