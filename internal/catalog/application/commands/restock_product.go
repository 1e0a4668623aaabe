package commands

import (
	"context"

	"github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	sharedApplication "github.com/felixgeelhaar/gymstore/internal/shared/application"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// RestockProductCommand adds units to a product.
type RestockProductCommand struct {
	ActorID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

// RestockProductHandler handles the RestockProductCommand.
type RestockProductHandler struct {
	productRepo domain.ProductRepository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

// NewRestockProductHandler creates a new RestockProductHandler.
func NewRestockProductHandler(productRepo domain.ProductRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *RestockProductHandler {
	return &RestockProductHandler{productRepo: productRepo, outboxRepo: outboxRepo, uow: uow}
}

// Handle executes the RestockProductCommand and returns the new stock.
func (h *RestockProductHandler) Handle(ctx context.Context, cmd RestockProductCommand) (int, error) {
	return sharedApplication.InUnitOfWork(ctx, h.uow, func(txCtx context.Context) (int, error) {
		product, err := h.productRepo.FindByID(txCtx, cmd.ProductID)
		if err != nil {
			return 0, err
		}
		if product == nil {
			return 0, domain.ErrProductNotFound
		}

		// Validates quantity and records the event.
		if err := product.Restock(cmd.Quantity); err != nil {
			return 0, err
		}
		if err := h.productRepo.IncrementStock(txCtx, product.ID(), cmd.Quantity); err != nil {
			return 0, err
		}

		events := product.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, cmd.ActorID))
		if err := outbox.SaveEvents(txCtx, h.outboxRepo, events); err != nil {
			return 0, err
		}
		return product.Stock(), nil
	})
}
