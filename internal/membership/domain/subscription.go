package domain

import (
	"errors"
	"time"

	catalogDomain "github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrSubscriptionNotFound    = errors.New("subscription not found")
	ErrSubscriptionStillActive = errors.New("subscription is still active")
)

// Status is the persisted tag of a subscription's state.
type Status string

const (
	StatusInactive Status = "inactive"
	StatusActive   Status = "active"
)

// Period is the plan an active subscription was rolled over from and the
// days it covers.
type Period struct {
	Name      string
	Price     sharedDomain.Money
	ImageURL  string
	PlanType  string
	StartDate sharedDomain.Date
	EndDate   sharedDomain.Date
}

// Subscription is an account's personal membership. Every account has
// exactly one; it starts inactive and becomes active on its first rollover.
type Subscription struct {
	sharedDomain.BaseAggregateRoot
	accountID   uuid.UUID
	period      *Period
	autoRenewal bool
}

// NewInactiveSubscription creates the placeholder opened with an account.
func NewInactiveSubscription(accountID uuid.UUID) *Subscription {
	return &Subscription{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		accountID:         accountID,
	}
}

func (s *Subscription) AccountID() uuid.UUID { return s.accountID }
func (s *Subscription) AutoRenewal() bool    { return s.autoRenewal }

// Status reports which state the subscription is in.
func (s *Subscription) Status() Status {
	if s.period == nil {
		return StatusInactive
	}
	return StatusActive
}

// Period returns the current period of an active subscription.
func (s *Subscription) Period() (Period, bool) {
	if s.period == nil {
		return Period{}, false
	}
	return *s.period, true
}

// IsExpired reports whether the subscription no longer covers today. An
// inactive subscription is always expired; an active one expires the day
// after its end date.
func (s *Subscription) IsExpired(today time.Time) bool {
	if s.period == nil {
		return true
	}
	return s.period.EndDate.Before(sharedDomain.DateOf(today))
}

// Rollover starts a new period from plan beginning today.
func (s *Subscription) Rollover(plan *catalogDomain.Plan, today time.Time) error {
	if !s.IsExpired(today) {
		return ErrSubscriptionStillActive
	}
	start := sharedDomain.DateOf(today)
	s.period = &Period{
		Name:      plan.Name(),
		Price:     plan.Price(),
		ImageURL:  plan.ImageURL(),
		PlanType:  plan.PlanType(),
		StartDate: start,
		EndDate:   start.AddDays(plan.DurationDays()),
	}
	s.Touch()
	s.AddDomainEvent(NewSubscriptionRenewed(s, plan.ID()))
	return nil
}

// SetAutoRenewal toggles the automatic renewal preference.
func (s *Subscription) SetAutoRenewal(enabled bool) {
	if s.autoRenewal == enabled {
		return
	}
	s.autoRenewal = enabled
	s.Touch()
}

// RehydrateSubscription recreates a subscription from persisted state. A nil
// period yields an inactive subscription.
func RehydrateSubscription(id, accountID uuid.UUID, period *Period, autoRenewal bool, createdAt, updatedAt time.Time) *Subscription {
	return &Subscription{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt), 0),
		accountID:         accountID,
		period:            period,
		autoRenewal:       autoRenewal,
	}
}
