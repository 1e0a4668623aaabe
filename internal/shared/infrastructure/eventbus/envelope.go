package eventbus

import (
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
)

// Envelope is the wire form of a domain event: routing data plus the
// event's own JSON body.
type Envelope struct {
	EventID       uuid.UUID            `json:"event_id"`
	AggregateID   uuid.UUID            `json:"aggregate_id"`
	AggregateType string               `json:"aggregate_type"`
	RoutingKey    string               `json:"routing_key"`
	OccurredAt    time.Time            `json:"occurred_at"`
	Payload       json.RawMessage      `json:"payload"`
	Metadata      domain.EventMetadata `json:"metadata"`
}

// NewEnvelope wraps a domain event.
func NewEnvelope(event domain.DomainEvent) (*Envelope, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		EventID:       event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		RoutingKey:    event.RoutingKey(),
		OccurredAt:    event.OccurredAt(),
		Payload:       body,
		Metadata:      event.Metadata(),
	}, nil
}

// DecodePayload unmarshals the event body into v.
func (e *Envelope) DecodePayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}
