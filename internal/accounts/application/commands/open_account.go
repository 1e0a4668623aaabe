package commands

import (
	"context"

	"github.com/felixgeelhaar/gymstore/internal/accounts/domain"
	loyaltyDomain "github.com/felixgeelhaar/gymstore/internal/loyalty/domain"
	membershipDomain "github.com/felixgeelhaar/gymstore/internal/membership/domain"
	sharedApplication "github.com/felixgeelhaar/gymstore/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// OpenAccountCommand contains the data needed to open a customer account.
type OpenAccountCommand struct {
	Email         string
	FullName      string
	Role          string
	Tier          string
	InitialCredit sharedDomain.Money
}

// OpenAccountResult identifies the created rows.
type OpenAccountResult struct {
	UserID         uuid.UUID
	AccountID      uuid.UUID
	SubscriptionID uuid.UUID
}

// OpenAccountHandler creates the user, the account and its inactive
// subscription together.
type OpenAccountHandler struct {
	userRepo         domain.UserRepository
	accountRepo      domain.AccountRepository
	subscriptionRepo membershipDomain.SubscriptionRepository
	uow              sharedApplication.UnitOfWork
}

// NewOpenAccountHandler creates a new OpenAccountHandler.
func NewOpenAccountHandler(
	userRepo domain.UserRepository,
	accountRepo domain.AccountRepository,
	subscriptionRepo membershipDomain.SubscriptionRepository,
	uow sharedApplication.UnitOfWork,
) *OpenAccountHandler {
	return &OpenAccountHandler{
		userRepo:         userRepo,
		accountRepo:      accountRepo,
		subscriptionRepo: subscriptionRepo,
		uow:              uow,
	}
}

// Handle executes the OpenAccountCommand.
func (h *OpenAccountHandler) Handle(ctx context.Context, cmd OpenAccountCommand) (*OpenAccountResult, error) {
	email, err := domain.NewEmail(cmd.Email)
	if err != nil {
		return nil, err
	}
	name, err := domain.NewFullName(cmd.FullName)
	if err != nil {
		return nil, err
	}
	role, err := domain.ParseRole(cmd.Role)
	if err != nil {
		return nil, err
	}
	tier := loyaltyDomain.TierBronze
	if cmd.Tier != "" {
		if tier, err = loyaltyDomain.ParseTier(cmd.Tier); err != nil {
			return nil, err
		}
	}

	return sharedApplication.InUnitOfWork(ctx, h.uow, func(txCtx context.Context) (*OpenAccountResult, error) {
		existing, err := h.userRepo.FindByEmail(txCtx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrAccountExists
		}

		user := domain.NewUser(email, name, role)
		if err := h.userRepo.Create(txCtx, user); err != nil {
			if database.IsUniqueViolation(err) {
				return nil, domain.ErrAccountExists
			}
			return nil, err
		}

		account, err := domain.NewAccount(user.ID(), tier, cmd.InitialCredit)
		if err != nil {
			return nil, err
		}
		if err := h.accountRepo.Create(txCtx, account); err != nil {
			return nil, err
		}

		subscription := membershipDomain.NewInactiveSubscription(account.ID())
		if err := h.subscriptionRepo.Create(txCtx, subscription); err != nil {
			return nil, err
		}

		return &OpenAccountResult{
			UserID:         user.ID(),
			AccountID:      account.ID(),
			SubscriptionID: subscription.ID(),
		}, nil
	})
}
