package domain

import (
	"context"

	"github.com/google/uuid"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID *uuid.UUID
	InStock    bool
	Limit      int
	Offset     int
}

// ProductRepository persists products. Find methods return nil, nil when
// nothing matches.
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*Product, error)

	// DecrementStock subtracts quantity only when enough stock is left. It
	// reports false, without changing anything, otherwise.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error)
	IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error

	AddImage(ctx context.Context, image *Image) error
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
}

// PlanRepository persists store subscription plans.
type PlanRepository interface {
	Create(ctx context.Context, plan *Plan) error
	FindByID(ctx context.Context, id uuid.UUID) (*Plan, error)
	List(ctx context.Context) ([]*Plan, error)
}
