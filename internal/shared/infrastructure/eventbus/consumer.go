package eventbus

import "context"

// EventConsumer handles events for a fixed set of routing keys.
type EventConsumer interface {
	// EventTypes returns the routing keys this consumer handles,
	// e.g. ["purchasing.purchase.completed"].
	EventTypes() []string

	Handle(ctx context.Context, event *Envelope) error
}

// ConsumerFunc adapts a function into an EventConsumer.
type ConsumerFunc struct {
	Types []string
	Fn    func(ctx context.Context, event *Envelope) error
}

func (c ConsumerFunc) EventTypes() []string { return c.Types }

func (c ConsumerFunc) Handle(ctx context.Context, event *Envelope) error {
	return c.Fn(ctx, event)
}
