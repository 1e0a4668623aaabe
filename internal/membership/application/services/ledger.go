package services

import (
	"context"
	"fmt"

	catalogDomain "github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	"github.com/felixgeelhaar/gymstore/internal/membership/domain"
	sharedApplication "github.com/felixgeelhaar/gymstore/internal/shared/application"
	"github.com/google/uuid"
)

// SubscriptionLedger reads and rolls over personal subscriptions.
type SubscriptionLedger struct {
	subscriptions domain.SubscriptionRepository
	clock         sharedApplication.Clock
}

// NewSubscriptionLedger creates a SubscriptionLedger. A nil clock uses the
// system clock.
func NewSubscriptionLedger(subscriptions domain.SubscriptionRepository, clock sharedApplication.Clock) *SubscriptionLedger {
	if clock == nil {
		clock = sharedApplication.SystemClock
	}
	return &SubscriptionLedger{subscriptions: subscriptions, clock: clock}
}

// GetByAccount loads the account's subscription or fails with
// ErrSubscriptionNotFound.
func (l *SubscriptionLedger) GetByAccount(ctx context.Context, accountID uuid.UUID) (*domain.Subscription, error) {
	sub, err := l.subscriptions.FindByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("load subscription: %w", err)
	}
	if sub == nil {
		return nil, domain.ErrSubscriptionNotFound
	}
	return sub, nil
}

// IsExpired reports whether sub no longer covers today.
func (l *SubscriptionLedger) IsExpired(sub *domain.Subscription) bool {
	return sub.IsExpired(l.clock.Now())
}

// Rollover starts a new period from plan today. It fails with
// ErrSubscriptionStillActive while the current period covers today.
func (l *SubscriptionLedger) Rollover(ctx context.Context, accountID uuid.UUID, plan *catalogDomain.Plan) (*domain.Subscription, error) {
	sub, err := l.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := sub.Rollover(plan, l.clock.Now()); err != nil {
		return nil, err
	}
	if err := l.subscriptions.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("save subscription: %w", err)
	}
	return sub, nil
}

// SetAutoRenewal stores the renewal preference.
func (l *SubscriptionLedger) SetAutoRenewal(ctx context.Context, accountID uuid.UUID, enabled bool) (*domain.Subscription, error) {
	sub, err := l.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	sub.SetAutoRenewal(enabled)
	if err := l.subscriptions.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("save subscription: %w", err)
	}
	return sub, nil
}
