package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrEmptyName    = errors.New("name cannot be empty")
	ErrNameTooLong  = errors.New("name exceeds maximum length")
	ErrInvalidRole  = errors.New("invalid role")
)

// MaxNameLength is the maximum allowed full name length.
const MaxNameLength = 255

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email is a validated, lower-cased email address.
type Email struct {
	value string
}

// NewEmail creates a validated email address.
func NewEmail(value string) (Email, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if !emailRegex.MatchString(value) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: value}, nil
}

func (e Email) String() string { return e.value }

// FullName is a validated display name.
type FullName struct {
	value string
}

// NewFullName creates a validated name.
func NewFullName(value string) (FullName, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return FullName{}, ErrEmptyName
	}
	if len(value) > MaxNameLength {
		return FullName{}, ErrNameTooLong
	}
	return FullName{value: value}, nil
}

func (n FullName) String() string { return n.value }

// Role decides what a user may see beyond their own account.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// ParseRole accepts a role name in any case; empty means customer.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RoleCustomer, nil
	case RoleCustomer, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// IsAdmin reports whether the role is admin.
func (r Role) IsAdmin() bool { return r == RoleAdmin }
