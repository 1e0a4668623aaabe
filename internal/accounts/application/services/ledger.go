package services

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/gymstore/internal/accounts/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
)

// TokenVerifier resolves a bearer token to the user it was issued for.
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// Principal is the authenticated caller of a request.
type Principal struct {
	User    *domain.User
	Account *domain.Account
}

// IsAdmin reports whether the caller has the admin role.
func (p *Principal) IsAdmin() bool { return p.User.Role().IsAdmin() }

// CanAccess reports whether the caller may read accountID's data.
func (p *Principal) CanAccess(accountID uuid.UUID) bool {
	return p.IsAdmin() || p.Account.ID() == accountID
}

// AccountLedger reads and debits account credit. Calls made with a
// unit-of-work context run inside that transaction.
type AccountLedger struct {
	users    domain.UserRepository
	accounts domain.AccountRepository
	tokens   TokenVerifier
}

// NewAccountLedger creates an AccountLedger.
func NewAccountLedger(users domain.UserRepository, accounts domain.AccountRepository, tokens TokenVerifier) *AccountLedger {
	return &AccountLedger{users: users, accounts: accounts, tokens: tokens}
}

// GetAccount loads an account or fails with ErrAccountNotFound.
func (l *AccountLedger) GetAccount(ctx context.Context, accountID uuid.UUID) (*domain.Account, error) {
	account, err := l.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

// GetCreditBalance returns the current balance of an account.
func (l *AccountLedger) GetCreditBalance(ctx context.Context, accountID uuid.UUID) (sharedDomain.Money, error) {
	account, err := l.GetAccount(ctx, accountID)
	if err != nil {
		return sharedDomain.Money{}, err
	}
	return account.CreditBalance(), nil
}

// Debit loads the account and subtracts amount without checking the
// balance.
func (l *AccountLedger) Debit(ctx context.Context, accountID uuid.UUID, amount sharedDomain.Money) error {
	account, err := l.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}
	return l.DebitAccount(ctx, account, amount)
}

// DebitAccount subtracts amount from a loaded account. The write only
// succeeds while the stored version matches the one account was read at,
// so a balance checked on account cannot have changed underneath; otherwise
// it fails with ErrConcurrentModification.
func (l *AccountLedger) DebitAccount(ctx context.Context, account *domain.Account, amount sharedDomain.Money) error {
	account.Debit(amount)
	if err := l.accounts.UpdateBalance(ctx, account); err != nil {
		return fmt.Errorf("debit account %s: %w", account.ID(), err)
	}
	return nil
}

// Authenticate resolves a bearer token to its user and account.
func (l *AccountLedger) Authenticate(ctx context.Context, token string) (*Principal, error) {
	userID, err := l.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := l.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	account, err := l.accounts.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}
	return &Principal{User: user, Account: account}, nil
}

// GetAccountByToken resolves a bearer token to the caller's account.
func (l *AccountLedger) GetAccountByToken(ctx context.Context, token string) (*domain.Account, error) {
	principal, err := l.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	return principal.Account, nil
}
