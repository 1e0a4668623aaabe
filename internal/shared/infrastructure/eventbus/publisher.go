// Package eventbus carries committed domain events from the outbox to
// their consumers, either through RabbitMQ or in process.
package eventbus

import (
	"context"
	"log/slog"
)

// Publisher sends serialized events to a broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// LogPublisher writes events to the log instead of a broker. It backs the
// relay when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a publisher that only logs.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the routing key and payload size.
func (p *LogPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.logger.InfoContext(ctx, "event published",
		"routing_key", routingKey,
		"size", len(payload),
	)
	return nil
}

// Close is a no-op.
func (p *LogPublisher) Close() error {
	return nil
}
