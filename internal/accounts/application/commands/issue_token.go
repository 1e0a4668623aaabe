package commands

import (
	"context"

	"github.com/felixgeelhaar/gymstore/internal/accounts/domain"
	"github.com/google/uuid"
)

// TokenIssuer signs bearer tokens for users.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

// IssueTokenCommand requests a bearer token for a user, by ID or email.
type IssueTokenCommand struct {
	UserID uuid.UUID
	Email  string
}

// IssueTokenHandler handles the IssueTokenCommand.
type IssueTokenHandler struct {
	userRepo domain.UserRepository
	issuer   TokenIssuer
}

// NewIssueTokenHandler creates a new IssueTokenHandler.
func NewIssueTokenHandler(userRepo domain.UserRepository, issuer TokenIssuer) *IssueTokenHandler {
	return &IssueTokenHandler{userRepo: userRepo, issuer: issuer}
}

// Handle executes the IssueTokenCommand.
func (h *IssueTokenHandler) Handle(ctx context.Context, cmd IssueTokenCommand) (string, error) {
	var (
		user *domain.User
		err  error
	)
	if cmd.Email != "" {
		email, parseErr := domain.NewEmail(cmd.Email)
		if parseErr != nil {
			return "", parseErr
		}
		user, err = h.userRepo.FindByEmail(ctx, email)
	} else {
		user, err = h.userRepo.FindByID(ctx, cmd.UserID)
	}
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", domain.ErrUserNotFound
	}
	return h.issuer.Issue(user.ID())
}
