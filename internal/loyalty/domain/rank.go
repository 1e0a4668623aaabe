package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidRank is returned for a tier outside the policy table.
var ErrInvalidRank = errors.New("invalid rank")

// Tier is an account's loyalty rank.
type Tier string

const (
	TierBronze   Tier = "BRONZE"
	TierSilver   Tier = "SILVER"
	TierGold     Tier = "GOLD"
	TierPlatinum Tier = "PLATINUM"
)

// ParseTier accepts a tier name in any case.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := policies[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidRank, s)
	}
	return t, nil
}

// IsValid reports whether the tier has a policy.
func (t Tier) IsValid() bool {
	_, ok := policies[t]
	return ok
}

func (t Tier) String() string { return string(t) }

// Totals at or above these bounds move a coupon into the longer validity bands.
var (
	mediumPurchase = sharedDomain.MoneyFromInt(50)
	largePurchase  = sharedDomain.MoneyFromInt(500)
)

// Policy is the coupon issuance rule of a tier.
type Policy struct {
	Percentage decimal.Decimal
	SmallDays  int
	MediumDays int
	LargeDays  int
}

var policies = map[Tier]Policy{
	TierBronze:   {Percentage: decimal.NewFromInt(5), SmallDays: 7, MediumDays: 14, LargeDays: 28},
	TierSilver:   {Percentage: decimal.NewFromInt(7), SmallDays: 7, MediumDays: 14, LargeDays: 28},
	TierGold:     {Percentage: decimal.NewFromInt(8), SmallDays: 14, MediumDays: 28, LargeDays: 63},
	TierPlatinum: {Percentage: decimal.NewFromInt(10), SmallDays: 14, MediumDays: 28, LargeDays: 63},
}

// PolicyFor returns the issuance rule of a tier.
func PolicyFor(t Tier) (Policy, error) {
	p, ok := policies[t]
	if !ok {
		return Policy{}, fmt.Errorf("%w: %q", ErrInvalidRank, string(t))
	}
	return p, nil
}

// ValidityDays returns how long a coupon issued on total stays valid.
func (p Policy) ValidityDays(total sharedDomain.Money) int {
	switch {
	case total.LessThan(mediumPurchase):
		return p.SmallDays
	case total.LessThan(largePurchase):
		return p.MediumDays
	default:
		return p.LargeDays
	}
}

// Amount returns the coupon value for total, rounded to cents.
func (p Policy) Amount(total sharedDomain.Money) sharedDomain.Money {
	return total.Percent(p.Percentage).Round()
}

// IssueCouponForPurchase applies the tier's policy to a purchase total.
func IssueCouponForPurchase(accountID uuid.UUID, tier Tier, total sharedDomain.Money, today time.Time) (*Coupon, error) {
	policy, err := PolicyFor(tier)
	if err != nil {
		return nil, err
	}
	issued := sharedDomain.DateOf(today)
	return NewCoupon(accountID, policy.Amount(total), issued, issued.AddDays(policy.ValidityDays(total)))
}
