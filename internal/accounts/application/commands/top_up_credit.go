package commands

import (
	"context"

	"github.com/felixgeelhaar/gymstore/internal/accounts/domain"
	sharedApplication "github.com/felixgeelhaar/gymstore/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// TopUpCreditCommand adds store credit to an account.
type TopUpCreditCommand struct {
	ActorID   uuid.UUID
	AccountID uuid.UUID
	Amount    sharedDomain.Money
}

// TopUpCreditHandler handles the TopUpCreditCommand.
type TopUpCreditHandler struct {
	accountRepo domain.AccountRepository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

// NewTopUpCreditHandler creates a new TopUpCreditHandler.
func NewTopUpCreditHandler(accountRepo domain.AccountRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *TopUpCreditHandler {
	return &TopUpCreditHandler{accountRepo: accountRepo, outboxRepo: outboxRepo, uow: uow}
}

// Handle executes the TopUpCreditCommand and returns the new balance.
func (h *TopUpCreditHandler) Handle(ctx context.Context, cmd TopUpCreditCommand) (sharedDomain.Money, error) {
	return sharedApplication.InUnitOfWork(ctx, h.uow, func(txCtx context.Context) (sharedDomain.Money, error) {
		account, err := h.accountRepo.FindByID(txCtx, cmd.AccountID)
		if err != nil {
			return sharedDomain.Money{}, err
		}
		if account == nil {
			return sharedDomain.Money{}, domain.ErrAccountNotFound
		}

		if err := account.TopUp(cmd.Amount); err != nil {
			return sharedDomain.Money{}, err
		}
		if err := h.accountRepo.UpdateBalance(txCtx, account); err != nil {
			return sharedDomain.Money{}, err
		}

		events := account.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, cmd.ActorID))
		if err := outbox.SaveEvents(txCtx, h.outboxRepo, events); err != nil {
			return sharedDomain.Money{}, err
		}
		return account.CreditBalance(), nil
	})
}
