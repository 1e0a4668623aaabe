package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// InProcessPublisher dispatches relayed events straight to registered
// consumers. It replaces RabbitMQ in single-binary deployments.
type InProcessPublisher struct {
	registry *ConsumerRegistry
	logger   *slog.Logger
}

// NewInProcessPublisher creates an in-process publisher over registry.
func NewInProcessPublisher(registry *ConsumerRegistry, logger *slog.Logger) *InProcessPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessPublisher{registry: registry, logger: logger}
}

// Publish decodes the envelope and dispatches it. A consumer failure is
// returned so the relay retries the message.
func (p *InProcessPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	var event Envelope
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if event.RoutingKey == "" {
		event.RoutingKey = routingKey
	}
	return p.registry.Dispatch(ctx, &event)
}

// Close is a no-op.
func (p *InProcessPublisher) Close() error {
	return nil
}
