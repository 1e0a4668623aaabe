package commands

import (
	"context"

	"github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	"github.com/google/uuid"
)

// AddProductImageCommand attaches an already uploaded image URL.
type AddProductImageCommand struct {
	ProductID uuid.UUID
	URL       string
}

// AddProductImageHandler handles the AddProductImageCommand.
type AddProductImageHandler struct {
	productRepo domain.ProductRepository
}

// NewAddProductImageHandler creates a new AddProductImageHandler.
func NewAddProductImageHandler(productRepo domain.ProductRepository) *AddProductImageHandler {
	return &AddProductImageHandler{productRepo: productRepo}
}

// Handle executes the AddProductImageCommand.
func (h *AddProductImageHandler) Handle(ctx context.Context, cmd AddProductImageCommand) (*domain.Image, error) {
	product, err := h.productRepo.FindByID(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	img, err := product.AddImage(cmd.URL)
	if err != nil {
		return nil, err
	}
	if err := h.productRepo.AddImage(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}
