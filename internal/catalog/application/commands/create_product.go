package commands

import (
	"context"

	"github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	sharedApplication "github.com/felixgeelhaar/gymstore/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// CreateProductCommand contains the data needed to add a product.
type CreateProductCommand struct {
	ActorID     uuid.UUID
	Name        string
	Description string
	Stock       int
	Price       sharedDomain.Money
	CategoryID  *uuid.UUID
	ImageURLs   []string
}

// CreateProductResult contains the result of adding a product.
type CreateProductResult struct {
	ProductID uuid.UUID
}

// CreateProductHandler handles the CreateProductCommand.
type CreateProductHandler struct {
	productRepo  domain.ProductRepository
	categoryRepo domain.CategoryRepository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
}

// NewCreateProductHandler creates a new CreateProductHandler.
func NewCreateProductHandler(
	productRepo domain.ProductRepository,
	categoryRepo domain.CategoryRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *CreateProductHandler {
	return &CreateProductHandler{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
	}
}

// Handle executes the CreateProductCommand.
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*CreateProductResult, error) {
	return sharedApplication.InUnitOfWork(ctx, h.uow, func(txCtx context.Context) (*CreateProductResult, error) {
		if cmd.CategoryID != nil {
			category, err := h.categoryRepo.FindByID(txCtx, *cmd.CategoryID)
			if err != nil {
				return nil, err
			}
			if category == nil {
				return nil, domain.ErrCategoryNotFound
			}
		}

		product, err := domain.NewProduct(cmd.Name, cmd.Description, cmd.Stock, cmd.Price, cmd.CategoryID)
		if err != nil {
			return nil, err
		}
		for _, url := range cmd.ImageURLs {
			if _, err := product.AddImage(url); err != nil {
				return nil, err
			}
		}

		if err := h.productRepo.Create(txCtx, product); err != nil {
			return nil, err
		}

		events := product.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, cmd.ActorID))
		if err := outbox.SaveEvents(txCtx, h.outboxRepo, events); err != nil {
			return nil, err
		}

		return &CreateProductResult{ProductID: product.ID()}, nil
	})
}
