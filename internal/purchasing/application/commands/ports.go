package commands

import (
	"context"

	accountsDomain "github.com/felixgeelhaar/gymstore/internal/accounts/domain"
	catalogDomain "github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	loyaltyDomain "github.com/felixgeelhaar/gymstore/internal/loyalty/domain"
	membershipDomain "github.com/felixgeelhaar/gymstore/internal/membership/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
)

// Inventory reserves stock and resolves catalog entries.
type Inventory interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*catalogDomain.Product, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*catalogDomain.Plan, error)
	ReserveStock(ctx context.Context, productID uuid.UUID, quantity int) (*catalogDomain.Product, error)
}

// CouponLedger redeems and issues loyalty coupons.
type CouponLedger interface {
	Get(ctx context.Context, couponID uuid.UUID) (*loyaltyDomain.Coupon, error)
	Redeem(ctx context.Context, couponID uuid.UUID) (*loyaltyDomain.Coupon, error)
	IssueForPurchase(ctx context.Context, accountID uuid.UUID, tier loyaltyDomain.Tier, total sharedDomain.Money) (*loyaltyDomain.Coupon, error)
	LinkToPurchase(ctx context.Context, couponIDs []uuid.UUID, purchaseID uuid.UUID) error
}

// AccountLedger reads and debits store credit.
type AccountLedger interface {
	GetAccount(ctx context.Context, accountID uuid.UUID) (*accountsDomain.Account, error)
	DebitAccount(ctx context.Context, account *accountsDomain.Account, amount sharedDomain.Money) error
}

// SubscriptionLedger reads and renews personal subscriptions.
type SubscriptionLedger interface {
	GetByAccount(ctx context.Context, accountID uuid.UUID) (*membershipDomain.Subscription, error)
	Rollover(ctx context.Context, accountID uuid.UUID, plan *catalogDomain.Plan) (*membershipDomain.Subscription, error)
}
