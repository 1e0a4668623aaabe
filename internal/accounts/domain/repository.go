package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository persists users. Find methods return nil, nil when nothing
// matches.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email Email) (*User, error)
}

// AccountRepository persists accounts. Find methods return nil, nil when
// nothing matches.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Account, error)

	// UpdateBalance writes the balance when the stored version still equals
	// account.Version(), then advances the version on both. A stale version
	// fails with sharedDomain.ErrConcurrentModification.
	UpdateBalance(ctx context.Context, account *Account) error
}
