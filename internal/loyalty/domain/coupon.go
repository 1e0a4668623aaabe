package domain

import (
	"errors"
	"time"

	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrCouponNotFound       = errors.New("coupon not found")
	ErrCouponAlreadySpent   = errors.New("coupon already spent")
	ErrCouponExpired        = errors.New("coupon expired")
	ErrCouponNegativeAmount = errors.New("coupon amount cannot be negative")
	ErrCouponInvalidPeriod  = errors.New("coupon due date is before its issue date")
)

// Coupon is a fixed amount of discount an account can spend once.
type Coupon struct {
	sharedDomain.BaseAggregateRoot
	accountID  uuid.UUID
	issueDate  sharedDomain.Date
	dueDate    sharedDomain.Date
	amount     sharedDomain.Money
	spent      bool
	purchaseID *uuid.UUID
}

// NewCoupon creates an unspent coupon.
func NewCoupon(accountID uuid.UUID, amount sharedDomain.Money, issueDate, dueDate sharedDomain.Date) (*Coupon, error) {
	if amount.IsNegative() {
		return nil, ErrCouponNegativeAmount
	}
	if dueDate.Before(issueDate) {
		return nil, ErrCouponInvalidPeriod
	}
	c := &Coupon{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		accountID:         accountID,
		issueDate:         issueDate,
		dueDate:           dueDate,
		amount:            amount,
	}
	c.AddDomainEvent(NewCouponIssued(c))
	return c, nil
}

func (c *Coupon) AccountID() uuid.UUID         { return c.accountID }
func (c *Coupon) IssueDate() sharedDomain.Date { return c.issueDate }
func (c *Coupon) DueDate() sharedDomain.Date   { return c.dueDate }
func (c *Coupon) Amount() sharedDomain.Money   { return c.amount }
func (c *Coupon) IsSpent() bool                { return c.spent }
func (c *Coupon) PurchaseID() *uuid.UUID       { return c.purchaseID }

// BelongsTo reports whether the coupon was issued to accountID.
func (c *Coupon) BelongsTo(accountID uuid.UUID) bool {
	return c.accountID == accountID
}

// IsExpired reports whether the due date lies before today. A coupon due
// today is still valid.
func (c *Coupon) IsExpired(today time.Time) bool {
	return c.dueDate.Before(sharedDomain.DateOf(today))
}

// Redeem marks the coupon spent.
func (c *Coupon) Redeem() error {
	if c.spent {
		return ErrCouponAlreadySpent
	}
	c.spent = true
	c.Touch()
	c.AddDomainEvent(NewCouponRedeemed(c))
	return nil
}

// LinkPurchase records the purchase the coupon was spent on.
func (c *Coupon) LinkPurchase(purchaseID uuid.UUID) {
	c.purchaseID = &purchaseID
	c.Touch()
}

// RehydrateCoupon recreates a coupon from persisted state without events.
func RehydrateCoupon(
	id, accountID uuid.UUID,
	issueDate, dueDate sharedDomain.Date,
	amount sharedDomain.Money,
	spent bool,
	purchaseID *uuid.UUID,
	createdAt, updatedAt time.Time,
) *Coupon {
	return &Coupon{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt), 0),
		accountID:         accountID,
		issueDate:         issueDate,
		dueDate:           dueDate,
		amount:            amount,
		spent:             spent,
		purchaseID:        purchaseID,
	}
}
