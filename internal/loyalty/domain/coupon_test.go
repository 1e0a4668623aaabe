package domain

import (
	"testing"
	"time"

	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoupon_Validation(t *testing.T) {
	day := sharedDomain.NewDate(2026, 1, 1)

	_, err := NewCoupon(uuid.New(), sharedDomain.MustParseMoney("-1"), day, day)
	assert.ErrorIs(t, err, ErrCouponNegativeAmount)

	_, err = NewCoupon(uuid.New(), sharedDomain.MoneyFromInt(1), day, day.AddDays(-1))
	assert.ErrorIs(t, err, ErrCouponInvalidPeriod)
}

func TestCoupon_IsExpired(t *testing.T) {
	c, err := NewCoupon(uuid.New(), sharedDomain.MoneyFromInt(5), sharedDomain.NewDate(2026, 1, 1), sharedDomain.NewDate(2026, 1, 8))
	require.NoError(t, err)

	assert.False(t, c.IsExpired(time.Date(2026, 1, 7, 23, 0, 0, 0, time.UTC)))
	assert.False(t, c.IsExpired(time.Date(2026, 1, 8, 23, 59, 0, 0, time.UTC)), "valid through its due date")
	assert.True(t, c.IsExpired(time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)))
}

func TestCoupon_Redeem(t *testing.T) {
	c, err := NewCoupon(uuid.New(), sharedDomain.MoneyFromInt(5), sharedDomain.NewDate(2026, 1, 1), sharedDomain.NewDate(2026, 1, 8))
	require.NoError(t, err)
	c.ClearDomainEvents()

	require.NoError(t, c.Redeem())
	assert.True(t, c.IsSpent())
	require.Len(t, c.DomainEvents(), 1)
	assert.Equal(t, RoutingKeyCouponRedeemed, c.DomainEvents()[0].RoutingKey())

	assert.ErrorIs(t, c.Redeem(), ErrCouponAlreadySpent)
	assert.Len(t, c.DomainEvents(), 1)
}

func TestCoupon_Ownership(t *testing.T) {
	owner := uuid.New()
	c, err := NewCoupon(owner, sharedDomain.MoneyFromInt(1), sharedDomain.NewDate(2026, 1, 1), sharedDomain.NewDate(2026, 1, 1))
	require.NoError(t, err)

	assert.True(t, c.BelongsTo(owner))
	assert.False(t, c.BelongsTo(uuid.New()))

	purchaseID := uuid.New()
	c.LinkPurchase(purchaseID)
	assert.Equal(t, &purchaseID, c.PurchaseID())
}
