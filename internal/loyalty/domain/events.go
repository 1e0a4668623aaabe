package domain

import (
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
)

const aggregateType = "Coupon"

const (
	RoutingKeyCouponIssued   = "loyalty.coupon.issued"
	RoutingKeyCouponRedeemed = "loyalty.coupon.redeemed"
)

// CouponIssued is emitted when a coupon is granted to an account.
type CouponIssued struct {
	sharedDomain.BaseEvent
	CouponID  uuid.UUID          `json:"coupon_id"`
	AccountID uuid.UUID          `json:"account_id"`
	Amount    sharedDomain.Money `json:"amount"`
	DueDate   sharedDomain.Date  `json:"due_date"`
}

func NewCouponIssued(c *Coupon) *CouponIssued {
	return &CouponIssued{
		BaseEvent: sharedDomain.NewBaseEvent(c.ID(), aggregateType, RoutingKeyCouponIssued),
		CouponID:  c.ID(),
		AccountID: c.AccountID(),
		Amount:    c.Amount(),
		DueDate:   c.DueDate(),
	}
}

// CouponRedeemed is emitted when a coupon is spent.
type CouponRedeemed struct {
	sharedDomain.BaseEvent
	CouponID  uuid.UUID          `json:"coupon_id"`
	AccountID uuid.UUID          `json:"account_id"`
	Amount    sharedDomain.Money `json:"amount"`
}

func NewCouponRedeemed(c *Coupon) *CouponRedeemed {
	return &CouponRedeemed{
		BaseEvent: sharedDomain.NewBaseEvent(c.ID(), aggregateType, RoutingKeyCouponRedeemed),
		CouponID:  c.ID(),
		AccountID: c.AccountID(),
		Amount:    c.Amount(),
	}
}
