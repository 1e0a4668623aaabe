package queries

import (
	"context"

	"github.com/felixgeelhaar/gymstore/internal/membership/domain"
	sharedApplication "github.com/felixgeelhaar/gymstore/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
)

// SubscriptionDTO is the read model of a personal subscription.
type SubscriptionDTO struct {
	ID          uuid.UUID           `json:"id"`
	AccountID   uuid.UUID           `json:"accountId"`
	Status      string              `json:"status"`
	Name        string              `json:"name,omitempty"`
	Price       *sharedDomain.Money `json:"price,omitempty"`
	ImageURL    string              `json:"imageUrl,omitempty"`
	PlanType    string              `json:"planType,omitempty"`
	StartDate   *sharedDomain.Date  `json:"startDate,omitempty"`
	EndDate     *sharedDomain.Date  `json:"endDate,omitempty"`
	Expired     bool                `json:"expired"`
	AutoRenewal bool                `json:"automaticRenewal"`
}

// ToSubscriptionDTO maps a subscription, judging expiry against clock.
func ToSubscriptionDTO(s *domain.Subscription, clock sharedApplication.Clock) SubscriptionDTO {
	dto := SubscriptionDTO{
		ID:          s.ID(),
		AccountID:   s.AccountID(),
		Status:      string(s.Status()),
		Expired:     s.IsExpired(clock.Now()),
		AutoRenewal: s.AutoRenewal(),
	}
	if p, ok := s.Period(); ok {
		price := p.Price.Round()
		dto.Name = p.Name
		dto.Price = &price
		dto.ImageURL = p.ImageURL
		dto.PlanType = p.PlanType
		dto.StartDate = &p.StartDate
		dto.EndDate = &p.EndDate
	}
	return dto
}

// GetSubscriptionHandler returns an account's personal subscription.
type GetSubscriptionHandler struct {
	subscriptionRepo domain.SubscriptionRepository
	clock            sharedApplication.Clock
}

// NewGetSubscriptionHandler creates a new GetSubscriptionHandler.
func NewGetSubscriptionHandler(subscriptionRepo domain.SubscriptionRepository, clock sharedApplication.Clock) *GetSubscriptionHandler {
	if clock == nil {
		clock = sharedApplication.SystemClock
	}
	return &GetSubscriptionHandler{subscriptionRepo: subscriptionRepo, clock: clock}
}

func (h *GetSubscriptionHandler) Handle(ctx context.Context, accountID uuid.UUID) (*SubscriptionDTO, error) {
	sub, err := h.subscriptionRepo.FindByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, domain.ErrSubscriptionNotFound
	}
	dto := ToSubscriptionDTO(sub, h.clock)
	return &dto, nil
}
