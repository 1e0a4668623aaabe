package services

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	"github.com/google/uuid"
)

// Inventory is the catalog surface the purchase engine depends on. Calls
// made with a unit-of-work context run inside that transaction.
type Inventory struct {
	products domain.ProductRepository
	plans    domain.PlanRepository
}

// NewInventory creates an Inventory.
func NewInventory(products domain.ProductRepository, plans domain.PlanRepository) *Inventory {
	return &Inventory{products: products, plans: plans}
}

// GetProduct loads a product or fails with ErrProductNotFound.
func (s *Inventory) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

// GetPlan loads a store subscription plan or fails with ErrPlanNotFound.
func (s *Inventory) GetPlan(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	plan, err := s.plans.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}
	return plan, nil
}

// ReserveStock decrements stock by quantity when enough is left. Otherwise
// it fails with an *InsufficientStockError carrying the current stock. The
// returned product reflects the new stock.
func (s *Inventory) ReserveStock(ctx context.Context, productID uuid.UUID, quantity int) (*domain.Product, error) {
	if !domain.ValidQuantity(quantity) {
		return nil, domain.ErrInvalidQuantity
	}

	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	reserved, err := s.products.DecrementStock(ctx, productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}
	if !reserved {
		// Another purchase may have taken units since product was read.
		current, err := s.GetProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		return nil, &domain.InsufficientStockError{
			ProductID:   productID,
			ProductName: current.Name(),
			Requested:   quantity,
			Remaining:   current.Stock(),
		}
	}

	product.Reserved(quantity)
	return product, nil
}
