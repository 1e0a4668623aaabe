package domain

import (
	"context"

	"github.com/google/uuid"
)

// SubscriptionRepository persists personal subscriptions. FindByAccount
// returns nil, nil when the account has none.
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *Subscription) error
	FindByAccount(ctx context.Context, accountID uuid.UUID) (*Subscription, error)
	Update(ctx context.Context, subscription *Subscription) error
}
