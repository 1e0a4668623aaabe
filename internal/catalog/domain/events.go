package domain

import (
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
)

const aggregateType = "Product"

// ProductCreated is emitted when a product is added to the catalog.
type ProductCreated struct {
	sharedDomain.BaseEvent
	ProductID uuid.UUID          `json:"product_id"`
	Name      string             `json:"name"`
	Stock     int                `json:"stock"`
	Price     sharedDomain.Money `json:"price"`
}

// NewProductCreated creates a ProductCreated event.
func NewProductCreated(p *Product) *ProductCreated {
	return &ProductCreated{
		BaseEvent: sharedDomain.NewBaseEvent(p.ID(), aggregateType, "catalog.product.created"),
		ProductID: p.ID(),
		Name:      p.Name(),
		Stock:     p.Stock(),
		Price:     p.Price(),
	}
}

// ProductRestocked is emitted when units are added to a product's stock.
type ProductRestocked struct {
	sharedDomain.BaseEvent
	ProductID uuid.UUID `json:"product_id"`
	Added     int       `json:"added"`
	Stock     int       `json:"stock"`
}

// NewProductRestocked creates a ProductRestocked event.
func NewProductRestocked(p *Product, added int) *ProductRestocked {
	return &ProductRestocked{
		BaseEvent: sharedDomain.NewBaseEvent(p.ID(), aggregateType, "catalog.product.restocked"),
		ProductID: p.ID(),
		Added:     added,
		Stock:     p.Stock(),
	}
}
