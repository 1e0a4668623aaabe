package outbox

import (
	"context"
	"time"

	"github.com/felixgeelhaar/gymstore/internal/shared/domain"
)

// Repository defines outbox persistence. Save and SaveBatch join the unit of
// work in ctx so events commit with the state change that raised them.
type Repository interface {
	Save(ctx context.Context, msg *Message) error
	SaveBatch(ctx context.Context, msgs []*Message) error

	// GetUnpublished returns pending messages due for delivery, oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]*Message, error)

	MarkPublished(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, err string, nextRetryAt time.Time) error
	MarkDead(ctx context.Context, id int64, reason string) error

	// CountPending counts messages that are neither published nor dead.
	CountPending(ctx context.Context) (int64, error)

	// DeleteOld removes published messages older than the retention period.
	DeleteOld(ctx context.Context, olderThanDays int) (int64, error)
}

// SaveEvents writes the events of an aggregate to the outbox.
func SaveEvents(ctx context.Context, repo Repository, events []domain.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs, err := NewMessages(events)
	if err != nil {
		return err
	}
	return repo.SaveBatch(ctx, msgs)
}
