package services

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/gymstore/internal/loyalty/domain"
	sharedApplication "github.com/felixgeelhaar/gymstore/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
)

// CouponLedger issues and redeems coupons. Calls made with a unit-of-work
// context run inside that transaction.
type CouponLedger struct {
	coupons domain.CouponRepository
	clock   sharedApplication.Clock
}

// NewCouponLedger creates a CouponLedger. A nil clock uses the system clock.
func NewCouponLedger(coupons domain.CouponRepository, clock sharedApplication.Clock) *CouponLedger {
	if clock == nil {
		clock = sharedApplication.SystemClock
	}
	return &CouponLedger{coupons: coupons, clock: clock}
}

// Get loads a coupon or fails with ErrCouponNotFound.
func (l *CouponLedger) Get(ctx context.Context, couponID uuid.UUID) (*domain.Coupon, error) {
	coupon, err := l.coupons.FindByID(ctx, couponID)
	if err != nil {
		return nil, fmt.Errorf("load coupon: %w", err)
	}
	if coupon == nil {
		return nil, domain.ErrCouponNotFound
	}
	return coupon, nil
}

// ListByAccount returns the coupons issued to an account.
func (l *CouponLedger) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Coupon, error) {
	return l.coupons.ListByAccount(ctx, accountID)
}

// Redeem spends a coupon. Only one caller can win the spent transition;
// every other fails with ErrCouponAlreadySpent. Expiry is not checked here.
func (l *CouponLedger) Redeem(ctx context.Context, couponID uuid.UUID) (*domain.Coupon, error) {
	coupon, err := l.Get(ctx, couponID)
	if err != nil {
		return nil, err
	}
	if err := coupon.Redeem(); err != nil {
		return nil, err
	}

	ok, err := l.coupons.MarkSpent(ctx, couponID)
	if err != nil {
		return nil, fmt.Errorf("mark coupon spent: %w", err)
	}
	if !ok {
		return nil, domain.ErrCouponAlreadySpent
	}
	return coupon, nil
}

// TotalDiscount sums the amounts of the given coupons.
func (l *CouponLedger) TotalDiscount(ctx context.Context, couponIDs []uuid.UUID) (sharedDomain.Money, error) {
	total := sharedDomain.ZeroMoney
	for _, id := range couponIDs {
		coupon, err := l.Get(ctx, id)
		if err != nil {
			return sharedDomain.Money{}, err
		}
		total = total.Add(coupon.Amount())
	}
	return total, nil
}

// IssueForPurchase grants the account's loyalty coupon for a purchase total.
func (l *CouponLedger) IssueForPurchase(ctx context.Context, accountID uuid.UUID, tier domain.Tier, total sharedDomain.Money) (*domain.Coupon, error) {
	coupon, err := domain.IssueCouponForPurchase(accountID, tier, total, l.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := l.coupons.Create(ctx, coupon); err != nil {
		return nil, fmt.Errorf("save coupon: %w", err)
	}
	return coupon, nil
}

// LinkToPurchase records the purchase that consumed the coupons.
func (l *CouponLedger) LinkToPurchase(ctx context.Context, couponIDs []uuid.UUID, purchaseID uuid.UUID) error {
	return l.coupons.LinkToPurchase(ctx, couponIDs, purchaseID)
}
