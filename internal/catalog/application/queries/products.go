package queries

import (
	"context"

	"github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	"github.com/google/uuid"
)

// GetProductHandler loads one product.
type GetProductHandler struct {
	productRepo domain.ProductRepository
}

// NewGetProductHandler creates a new GetProductHandler.
func NewGetProductHandler(productRepo domain.ProductRepository) *GetProductHandler {
	return &GetProductHandler{productRepo: productRepo}
}

// Handle returns the product or ErrProductNotFound.
func (h *GetProductHandler) Handle(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := h.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	dto := ToProductDTO(product)
	return &dto, nil
}

// ListProductsQuery filters the catalog listing.
type ListProductsQuery struct {
	CategoryID *uuid.UUID
	InStock    bool
	Limit      int
	Offset     int
}

// ListProductsHandler lists products.
type ListProductsHandler struct {
	productRepo domain.ProductRepository
}

// NewListProductsHandler creates a new ListProductsHandler.
func NewListProductsHandler(productRepo domain.ProductRepository) *ListProductsHandler {
	return &ListProductsHandler{productRepo: productRepo}
}

// Handle executes the ListProductsQuery.
func (h *ListProductsHandler) Handle(ctx context.Context, query ListProductsQuery) ([]ProductDTO, error) {
	products, err := h.productRepo.List(ctx, domain.ProductFilter{
		CategoryID: query.CategoryID,
		InStock:    query.InStock,
		Limit:      query.Limit,
		Offset:     query.Offset,
	})
	if err != nil {
		return nil, err
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, ToProductDTO(p))
	}
	return dtos, nil
}
