package commands

import (
	"context"

	"github.com/felixgeelhaar/gymstore/internal/membership/application/services"
	"github.com/felixgeelhaar/gymstore/internal/membership/domain"
	"github.com/google/uuid"
)

// SetAutoRenewalCommand toggles the renewal preference of the caller.
type SetAutoRenewalCommand struct {
	AccountID uuid.UUID
	Enabled   bool
}

// SetAutoRenewalHandler handles the SetAutoRenewalCommand.
type SetAutoRenewalHandler struct {
	ledger *services.SubscriptionLedger
}

// NewSetAutoRenewalHandler creates a new SetAutoRenewalHandler.
func NewSetAutoRenewalHandler(ledger *services.SubscriptionLedger) *SetAutoRenewalHandler {
	return &SetAutoRenewalHandler{ledger: ledger}
}

// Handle executes the SetAutoRenewalCommand.
func (h *SetAutoRenewalHandler) Handle(ctx context.Context, cmd SetAutoRenewalCommand) (*domain.Subscription, error) {
	return h.ledger.SetAutoRenewal(ctx, cmd.AccountID, cmd.Enabled)
}
