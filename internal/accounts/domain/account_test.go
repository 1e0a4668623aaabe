package domain

import (
	"testing"

	loyaltyDomain "github.com/felixgeelhaar/gymstore/internal/loyalty/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	a, err := NewAccount(uuid.New(), loyaltyDomain.TierSilver, sharedDomain.MustParseMoney("100"))
	require.NoError(t, err)
	assert.Equal(t, 1, a.Version())
	assert.Equal(t, loyaltyDomain.TierSilver, a.Tier())

	_, err = NewAccount(uuid.New(), loyaltyDomain.Tier("IRON"), sharedDomain.ZeroMoney)
	assert.ErrorIs(t, err, loyaltyDomain.ErrInvalidRank)

	_, err = NewAccount(uuid.New(), loyaltyDomain.TierGold, sharedDomain.MustParseMoney("-1"))
	assert.ErrorIs(t, err, ErrNegativeCredit)
}

func TestAccount_DebitAndTopUp(t *testing.T) {
	a, err := NewAccount(uuid.New(), loyaltyDomain.TierBronze, sharedDomain.MustParseMoney("100"))
	require.NoError(t, err)

	assert.True(t, a.CanAfford(sharedDomain.MustParseMoney("100")))
	assert.False(t, a.CanAfford(sharedDomain.MustParseMoney("100.01")))

	a.Debit(sharedDomain.MustParseMoney("40"))
	assert.Equal(t, "60.00", a.CreditBalance().String())

	require.NoError(t, a.TopUp(sharedDomain.MustParseMoney("15.5")))
	assert.Equal(t, "75.50", a.CreditBalance().String())
	require.Len(t, a.DomainEvents(), 1)
	assert.Equal(t, RoutingKeyCreditToppedUp, a.DomainEvents()[0].RoutingKey())

	assert.ErrorIs(t, a.TopUp(sharedDomain.ZeroMoney), ErrNonPositiveAmount)
}

func TestValueObjects(t *testing.T) {
	email, err := NewEmail("  Jane@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", email.String())

	_, err = NewEmail("not-an-email")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = NewFullName("  ")
	assert.ErrorIs(t, err, ErrEmptyName)

	role, err := ParseRole("ADMIN")
	require.NoError(t, err)
	assert.True(t, role.IsAdmin())

	role, err = ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, role)

	_, err = ParseRole("root")
	assert.ErrorIs(t, err, ErrInvalidRole)
}
