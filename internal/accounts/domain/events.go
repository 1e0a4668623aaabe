package domain

import (
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
)

// RoutingKeyCreditToppedUp routes CreditToppedUp events.
const RoutingKeyCreditToppedUp = "accounts.credit.topped_up"

// CreditToppedUp is emitted when credit is added to an account.
type CreditToppedUp struct {
	sharedDomain.BaseEvent
	AccountID uuid.UUID          `json:"account_id"`
	Amount    sharedDomain.Money `json:"amount"`
	Balance   sharedDomain.Money `json:"balance"`
}

func NewCreditToppedUp(a *Account, amount sharedDomain.Money) *CreditToppedUp {
	return &CreditToppedUp{
		BaseEvent: sharedDomain.NewBaseEvent(a.ID(), "Account", RoutingKeyCreditToppedUp),
		AccountID: a.ID(),
		Amount:    amount,
		Balance:   a.CreditBalance(),
	}
}
