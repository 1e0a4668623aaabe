package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
)

// User is the identity a bearer credential points to.
type User struct {
	sharedDomain.BaseEntity
	email    Email
	fullName FullName
	role     Role
}

// NewUser creates a user.
func NewUser(email Email, fullName FullName, role Role) *User {
	return &User{
		BaseEntity: sharedDomain.NewBaseEntity(),
		email:      email,
		fullName:   fullName,
		role:       role,
	}
}

func (u *User) Email() Email       { return u.email }
func (u *User) FullName() FullName { return u.fullName }
func (u *User) Role() Role         { return u.role }

// RehydrateUser recreates a user from persisted state.
func RehydrateUser(id uuid.UUID, email, fullName string, role Role, createdAt, updatedAt time.Time) *User {
	return &User{
		BaseEntity: sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		email:      Email{value: email},
		fullName:   FullName{value: fullName},
		role:       role,
	}
}
