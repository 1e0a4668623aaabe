package commands

import (
	"context"

	"github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
)

// CreatePlanCommand contains the data needed to offer a store subscription.
type CreatePlanCommand struct {
	Name         string
	Price        sharedDomain.Money
	Description  string
	ImageURL     string
	PlanType     string
	DurationDays int
}

// CreatePlanHandler handles the CreatePlanCommand.
type CreatePlanHandler struct {
	planRepo domain.PlanRepository
}

// NewCreatePlanHandler creates a new CreatePlanHandler.
func NewCreatePlanHandler(planRepo domain.PlanRepository) *CreatePlanHandler {
	return &CreatePlanHandler{planRepo: planRepo}
}

// Handle executes the CreatePlanCommand.
func (h *CreatePlanHandler) Handle(ctx context.Context, cmd CreatePlanCommand) (*domain.Plan, error) {
	plan, err := domain.NewPlan(cmd.Name, cmd.Price, cmd.Description, cmd.ImageURL, cmd.PlanType, cmd.DurationDays)
	if err != nil {
		return nil, err
	}
	if err := h.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}
