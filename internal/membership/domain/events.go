package domain

import (
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
)

// RoutingKeySubscriptionRenewed routes SubscriptionRenewed events.
const RoutingKeySubscriptionRenewed = "membership.subscription.renewed"

// SubscriptionRenewed is emitted when a subscription rolls over to a plan.
type SubscriptionRenewed struct {
	sharedDomain.BaseEvent
	SubscriptionID uuid.UUID         `json:"subscription_id"`
	AccountID      uuid.UUID         `json:"account_id"`
	PlanID         uuid.UUID         `json:"plan_id"`
	StartDate      sharedDomain.Date `json:"start_date"`
	EndDate        sharedDomain.Date `json:"end_date"`
}

func NewSubscriptionRenewed(s *Subscription, planID uuid.UUID) *SubscriptionRenewed {
	p, _ := s.Period()
	return &SubscriptionRenewed{
		BaseEvent:      sharedDomain.NewBaseEvent(s.ID(), "Subscription", RoutingKeySubscriptionRenewed),
		SubscriptionID: s.ID(),
		AccountID:      s.AccountID(),
		PlanID:         planID,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
	}
}
