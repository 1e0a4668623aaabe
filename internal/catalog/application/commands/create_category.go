package commands

import (
	"context"

	"github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/database"
)

// CreateCategoryCommand contains the data needed to create a category.
type CreateCategoryCommand struct {
	Name        string
	Description string
	ImageURL    string
}

// CreateCategoryHandler handles the CreateCategoryCommand.
type CreateCategoryHandler struct {
	categoryRepo domain.CategoryRepository
}

// NewCreateCategoryHandler creates a new CreateCategoryHandler.
func NewCreateCategoryHandler(categoryRepo domain.CategoryRepository) *CreateCategoryHandler {
	return &CreateCategoryHandler{categoryRepo: categoryRepo}
}

// Handle executes the CreateCategoryCommand.
func (h *CreateCategoryHandler) Handle(ctx context.Context, cmd CreateCategoryCommand) (*domain.Category, error) {
	category, err := domain.NewCategory(cmd.Name, cmd.Description, cmd.ImageURL)
	if err != nil {
		return nil, err
	}
	if err := h.categoryRepo.Create(ctx, category); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, domain.ErrCategoryExists
		}
		return nil, err
	}
	return category, nil
}
