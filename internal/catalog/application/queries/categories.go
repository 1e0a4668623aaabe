package queries

import (
	"context"

	"github.com/felixgeelhaar/gymstore/internal/catalog/domain"
)

// ListCategoriesHandler lists categories.
type ListCategoriesHandler struct {
	categoryRepo domain.CategoryRepository
}

// NewListCategoriesHandler creates a new ListCategoriesHandler.
func NewListCategoriesHandler(categoryRepo domain.CategoryRepository) *ListCategoriesHandler {
	return &ListCategoriesHandler{categoryRepo: categoryRepo}
}

func (h *ListCategoriesHandler) Handle(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := h.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		dtos = append(dtos, ToCategoryDTO(c))
	}
	return dtos, nil
}
