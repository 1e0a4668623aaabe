package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/gymstore/internal/accounts/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
)

// AccountDTO is the read model of an account and its user.
type AccountDTO struct {
	ID            uuid.UUID          `json:"id"`
	UserID        uuid.UUID          `json:"userId"`
	Email         string             `json:"email"`
	FullName      string             `json:"fullName"`
	Role          string             `json:"role"`
	CreditBalance sharedDomain.Money `json:"creditBalance"`
	Rank          string             `json:"rank"`
	CreatedAt     time.Time          `json:"createdAt"`
}

func ToAccountDTO(a *domain.Account, u *domain.User) AccountDTO {
	return AccountDTO{
		ID:            a.ID(),
		UserID:        u.ID(),
		Email:         u.Email().String(),
		FullName:      u.FullName().String(),
		Role:          string(u.Role()),
		CreditBalance: a.CreditBalance().Round(),
		Rank:          a.Tier().String(),
		CreatedAt:     a.CreatedAt(),
	}
}

// GetAccountHandler loads an account with its user.
type GetAccountHandler struct {
	userRepo    domain.UserRepository
	accountRepo domain.AccountRepository
}

// NewGetAccountHandler creates a new GetAccountHandler.
func NewGetAccountHandler(userRepo domain.UserRepository, accountRepo domain.AccountRepository) *GetAccountHandler {
	return &GetAccountHandler{userRepo: userRepo, accountRepo: accountRepo}
}

// ByID returns the account with the given ID.
func (h *GetAccountHandler) ByID(ctx context.Context, accountID uuid.UUID) (*AccountDTO, error) {
	account, err := h.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}
	user, err := h.userRepo.FindByID(ctx, account.UserID())
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	dto := ToAccountDTO(account, user)
	return &dto, nil
}

// ByEmail returns the account of the user with the given email.
func (h *GetAccountHandler) ByEmail(ctx context.Context, email string) (*AccountDTO, error) {
	parsed, err := domain.NewEmail(email)
	if err != nil {
		return nil, err
	}
	user, err := h.userRepo.FindByEmail(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	account, err := h.accountRepo.FindByUserID(ctx, user.ID())
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}
	dto := ToAccountDTO(account, user)
	return &dto, nil
}
