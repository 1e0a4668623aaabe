package domain

import (
	"errors"
	"time"

	loyaltyDomain "github.com/felixgeelhaar/gymstore/internal/loyalty/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInsufficientCredit = errors.New("insufficient credit")
	ErrNonPositiveAmount  = errors.New("amount must be positive")
	ErrNegativeCredit     = errors.New("credit balance cannot be negative")
	ErrAccountExists      = errors.New("account already exists")
)

// Account holds a user's store credit and loyalty rank. The version counts
// persisted balance changes and guards concurrent debits.
type Account struct {
	sharedDomain.BaseAggregateRoot
	userID        uuid.UUID
	creditBalance sharedDomain.Money
	tier          loyaltyDomain.Tier
}

// NewAccount opens an account for userID.
func NewAccount(userID uuid.UUID, tier loyaltyDomain.Tier, initialCredit sharedDomain.Money) (*Account, error) {
	if !tier.IsValid() {
		return nil, loyaltyDomain.ErrInvalidRank
	}
	if initialCredit.IsNegative() {
		return nil, ErrNegativeCredit
	}
	a := &Account{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		creditBalance:     initialCredit,
		tier:              tier,
	}
	a.SetVersion(1)
	return a, nil
}

func (a *Account) UserID() uuid.UUID                 { return a.userID }
func (a *Account) CreditBalance() sharedDomain.Money { return a.creditBalance }
func (a *Account) Tier() loyaltyDomain.Tier          { return a.tier }

// CanAfford reports whether amount fits in the balance.
func (a *Account) CanAfford(amount sharedDomain.Money) bool {
	return !amount.GreaterThan(a.creditBalance)
}

// Debit subtracts amount. Callers check CanAfford first.
func (a *Account) Debit(amount sharedDomain.Money) {
	a.creditBalance = a.creditBalance.Sub(amount)
	a.Touch()
}

// TopUp adds credit.
func (a *Account) TopUp(amount sharedDomain.Money) error {
	if !amount.GreaterThan(sharedDomain.ZeroMoney) {
		return ErrNonPositiveAmount
	}
	a.creditBalance = a.creditBalance.Add(amount)
	a.Touch()
	a.AddDomainEvent(NewCreditToppedUp(a, amount))
	return nil
}

// RehydrateAccount recreates an account from persisted state.
func RehydrateAccount(
	id, userID uuid.UUID,
	creditBalance sharedDomain.Money,
	tier loyaltyDomain.Tier,
	version int,
	createdAt, updatedAt time.Time,
) *Account {
	return &Account{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt), version),
		userID:            userID,
		creditBalance:     creditBalance,
		tier:              tier,
	}
}
