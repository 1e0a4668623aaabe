package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/gymstore/internal/loyalty/domain"
	sharedApplication "github.com/felixgeelhaar/gymstore/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
)

// CouponDTO is the read model of a coupon.
type CouponDTO struct {
	ID         uuid.UUID          `json:"id"`
	AccountID  uuid.UUID          `json:"accountId"`
	IssueDate  sharedDomain.Date  `json:"issueDate"`
	DueDate    sharedDomain.Date  `json:"dueDate"`
	Amount     sharedDomain.Money `json:"amount"`
	Spent      bool               `json:"spent"`
	Expired    bool               `json:"expired"`
	PurchaseID *uuid.UUID         `json:"purchaseId,omitempty"`
}

func ToCouponDTO(c *domain.Coupon, now time.Time) CouponDTO {
	return CouponDTO{
		ID:         c.ID(),
		AccountID:  c.AccountID(),
		IssueDate:  c.IssueDate(),
		DueDate:    c.DueDate(),
		Amount:     c.Amount().Round(),
		Spent:      c.IsSpent(),
		Expired:    c.IsExpired(now),
		PurchaseID: c.PurchaseID(),
	}
}

// GetCouponQuery reads one coupon on behalf of a caller.
type GetCouponQuery struct {
	CouponID        uuid.UUID
	CallerAccountID uuid.UUID
	CallerIsAdmin   bool
}

// GetCouponHandler handles GetCouponQuery.
type GetCouponHandler struct {
	couponRepo domain.CouponRepository
	clock      sharedApplication.Clock
}

// NewGetCouponHandler creates a new GetCouponHandler.
func NewGetCouponHandler(couponRepo domain.CouponRepository, clock sharedApplication.Clock) *GetCouponHandler {
	if clock == nil {
		clock = sharedApplication.SystemClock
	}
	return &GetCouponHandler{couponRepo: couponRepo, clock: clock}
}

// Handle returns the coupon when the caller owns it or is an admin.
func (h *GetCouponHandler) Handle(ctx context.Context, query GetCouponQuery) (*CouponDTO, error) {
	coupon, err := h.couponRepo.FindByID(ctx, query.CouponID)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, domain.ErrCouponNotFound
	}
	if !query.CallerIsAdmin && !coupon.BelongsTo(query.CallerAccountID) {
		return nil, sharedDomain.ErrForbidden
	}
	dto := ToCouponDTO(coupon, h.clock.Now())
	return &dto, nil
}

// ListAccountCouponsHandler lists the coupons of one account.
type ListAccountCouponsHandler struct {
	couponRepo domain.CouponRepository
	clock      sharedApplication.Clock
}

// NewListAccountCouponsHandler creates a new ListAccountCouponsHandler.
func NewListAccountCouponsHandler(couponRepo domain.CouponRepository, clock sharedApplication.Clock) *ListAccountCouponsHandler {
	if clock == nil {
		clock = sharedApplication.SystemClock
	}
	return &ListAccountCouponsHandler{couponRepo: couponRepo, clock: clock}
}

func (h *ListAccountCouponsHandler) Handle(ctx context.Context, accountID uuid.UUID) ([]CouponDTO, error) {
	coupons, err := h.couponRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	now := h.clock.Now()
	dtos := make([]CouponDTO, 0, len(coupons))
	for _, c := range coupons {
		dtos = append(dtos, ToCouponDTO(c, now))
	}
	return dtos, nil
}
