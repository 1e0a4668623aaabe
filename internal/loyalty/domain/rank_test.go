package domain

import (
	"testing"
	"time"

	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTier(t *testing.T) {
	tier, err := ParseTier(" gold ")
	require.NoError(t, err)
	assert.Equal(t, TierGold, tier)

	_, err = ParseTier("DIAMOND")
	assert.ErrorIs(t, err, ErrInvalidRank)
}

func TestIssueCouponForPurchase(t *testing.T) {
	today := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	accountID := uuid.New()

	tests := []struct {
		tier       Tier
		total      string
		wantAmount string
		wantDays   int
	}{
		{TierBronze, "40", "2.00", 7},
		{TierBronze, "49.99", "2.50", 7},
		{TierBronze, "50", "2.50", 14},
		{TierBronze, "499.99", "25.00", 14},
		{TierBronze, "500", "25.00", 28},
		{TierSilver, "100", "7.00", 14},
		{TierSilver, "10", "0.70", 7},
		{TierGold, "10", "0.80", 14},
		{TierGold, "120", "9.60", 28},
		{TierGold, "600", "48.00", 63},
		{TierPlatinum, "33.35", "3.34", 14},
		{TierPlatinum, "1000", "100.00", 63},
		{TierPlatinum, "0", "0.00", 14},
	}
	for _, tt := range tests {
		t.Run(string(tt.tier)+"/"+tt.total, func(t *testing.T) {
			c, err := IssueCouponForPurchase(accountID, tt.tier, sharedDomain.MustParseMoney(tt.total), today)
			require.NoError(t, err)

			assert.Equal(t, tt.wantAmount, c.Amount().String())
			assert.Equal(t, "2026-03-10", c.IssueDate().String())
			assert.Equal(t, sharedDomain.NewDate(2026, 3, 10).AddDays(tt.wantDays).String(), c.DueDate().String())
			assert.Equal(t, accountID, c.AccountID())
			assert.False(t, c.IsSpent())
		})
	}
}

func TestIssueCouponForPurchase_UnknownTier(t *testing.T) {
	_, err := IssueCouponForPurchase(uuid.New(), Tier("WOOD"), sharedDomain.MoneyFromInt(10), time.Now())
	assert.ErrorIs(t, err, ErrInvalidRank)
}
