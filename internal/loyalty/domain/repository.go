package domain

import (
	"context"

	"github.com/google/uuid"
)

// CouponRepository persists coupons. FindByID returns nil, nil when the
// coupon does not exist.
type CouponRepository interface {
	Create(ctx context.Context, coupon *Coupon) error
	FindByID(ctx context.Context, id uuid.UUID) (*Coupon, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*Coupon, error)

	// MarkSpent flips spent from false to true. It reports false when the
	// coupon was already spent or does not exist.
	MarkSpent(ctx context.Context, id uuid.UUID) (bool, error)
	LinkToPurchase(ctx context.Context, couponIDs []uuid.UUID, purchaseID uuid.UUID) error
}
