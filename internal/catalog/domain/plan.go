package domain

import (
	"errors"
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrPlanNotFound        = errors.New("store subscription not found")
	ErrPlanEmptyName       = errors.New("store subscription name cannot be empty")
	ErrPlanInvalidDuration = errors.New("duration days must be positive")
)

// Plan is a purchasable membership offered by the store (a
// StoreSubscription). Plans are read-only once created.
type Plan struct {
	sharedDomain.BaseEntity
	name         string
	price        sharedDomain.Money
	description  string
	imageURL     string
	planType     string
	durationDays int
}

// NewPlan creates a store subscription plan.
func NewPlan(name string, price sharedDomain.Money, description, imageURL, planType string, durationDays int) (*Plan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrPlanEmptyName
	}
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}
	if durationDays <= 0 {
		return nil, ErrPlanInvalidDuration
	}
	return &Plan{
		BaseEntity:   sharedDomain.NewBaseEntity(),
		name:         name,
		price:        price,
		description:  strings.TrimSpace(description),
		imageURL:     strings.TrimSpace(imageURL),
		planType:     strings.TrimSpace(planType),
		durationDays: durationDays,
	}, nil
}

// RehydratePlan recreates a plan from persisted state.
func RehydratePlan(
	id uuid.UUID,
	name string,
	price sharedDomain.Money,
	description, imageURL, planType string,
	durationDays int,
	createdAt, updatedAt time.Time,
) *Plan {
	return &Plan{
		BaseEntity:   sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		name:         name,
		price:        price,
		description:  description,
		imageURL:     imageURL,
		planType:     planType,
		durationDays: durationDays,
	}
}

func (p *Plan) Name() string              { return p.name }
func (p *Plan) Price() sharedDomain.Money { return p.price }
func (p *Plan) Description() string       { return p.description }
func (p *Plan) ImageURL() string          { return p.imageURL }
func (p *Plan) PlanType() string          { return p.planType }
func (p *Plan) DurationDays() int         { return p.durationDays }
