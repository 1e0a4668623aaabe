package queries

import (
	"context"

	"github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	"github.com/google/uuid"
)

// GetPlanHandler loads one store subscription.
type GetPlanHandler struct {
	planRepo domain.PlanRepository
}

// NewGetPlanHandler creates a new GetPlanHandler.
func NewGetPlanHandler(planRepo domain.PlanRepository) *GetPlanHandler {
	return &GetPlanHandler{planRepo: planRepo}
}

func (h *GetPlanHandler) Handle(ctx context.Context, id uuid.UUID) (*PlanDTO, error) {
	plan, err := h.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}
	dto := ToPlanDTO(plan)
	return &dto, nil
}

// ListPlansHandler lists store subscriptions.
type ListPlansHandler struct {
	planRepo domain.PlanRepository
}

// NewListPlansHandler creates a new ListPlansHandler.
func NewListPlansHandler(planRepo domain.PlanRepository) *ListPlansHandler {
	return &ListPlansHandler{planRepo: planRepo}
}

func (h *ListPlansHandler) Handle(ctx context.Context) ([]PlanDTO, error) {
	plans, err := h.planRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]PlanDTO, 0, len(plans))
	for _, p := range plans {
		dtos = append(dtos, ToPlanDTO(p))
	}
	return dtos, nil
}
