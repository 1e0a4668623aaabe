package queries

import (
	"context"
	"time"

	loyaltyDomain "github.com/felixgeelhaar/gymstore/internal/loyalty/domain"
	"github.com/felixgeelhaar/gymstore/internal/purchasing/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
)

// PurchaseDetailDTO is one line of a purchase.
type PurchaseDetailDTO struct {
	ProductID   uuid.UUID          `json:"productId"`
	ProductName string             `json:"productName"`
	Quantity    int                `json:"quantity"`
	UnitPrice   sharedDomain.Money `json:"unitPrice"`
	Subtotal    sharedDomain.Money `json:"subtotal"`
}

// AppliedCouponDTO is a coupon spent on a purchase.
type AppliedCouponDTO struct {
	ID     uuid.UUID          `json:"id"`
	Amount sharedDomain.Money `json:"amount"`
}

// IssuedCouponDTO is the loyalty coupon granted by a purchase.
type IssuedCouponDTO struct {
	ID      uuid.UUID          `json:"id"`
	Amount  sharedDomain.Money `json:"amount"`
	DueDate sharedDomain.Date  `json:"dueDate"`
}

// PurchaseDTO is the read model of a purchase.
type PurchaseDTO struct {
	ID                  uuid.UUID           `json:"id"`
	AccountID           uuid.UUID           `json:"accountId"`
	PurchaseDate        time.Time           `json:"purchaseDate"`
	StoreSubscriptionID *uuid.UUID          `json:"storeSubscriptionId,omitempty"`
	PurchaseDetails     []PurchaseDetailDTO `json:"purchaseDetails"`
	SubscriptionPrice   sharedDomain.Money  `json:"subscriptionPrice"`
	Total               sharedDomain.Money  `json:"total"`
	CouponsApplied      []AppliedCouponDTO  `json:"couponsApplied"`
	Discount            sharedDomain.Money  `json:"discount"`
	TotalAfterDiscounts sharedDomain.Money  `json:"totalAfterDiscounts"`
	CouponIssued        *IssuedCouponDTO    `json:"couponIssued,omitempty"`
}

func ToPurchaseDTO(p *domain.Purchase) PurchaseDTO {
	details := make([]PurchaseDetailDTO, 0, len(p.Details()))
	for _, d := range p.Details() {
		details = append(details, PurchaseDetailDTO{
			ProductID:   d.ProductID,
			ProductName: d.ProductName,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			Subtotal:    d.Subtotal,
		})
	}
	coupons := make([]AppliedCouponDTO, 0, len(p.Coupons()))
	for _, c := range p.Coupons() {
		coupons = append(coupons, AppliedCouponDTO{ID: c.CouponID, Amount: c.Amount})
	}
	return PurchaseDTO{
		ID:                  p.ID(),
		AccountID:           p.AccountID(),
		PurchaseDate:        p.PurchaseDate(),
		StoreSubscriptionID: p.PlanID(),
		PurchaseDetails:     details,
		SubscriptionPrice:   p.SubscriptionPrice(),
		Total:               p.Total(),
		CouponsApplied:      coupons,
		Discount:            p.Discount(),
		TotalAfterDiscounts: p.TotalAfterDiscounts(),
	}
}

// WithIssuedCoupon attaches the loyalty coupon granted at checkout.
func (d PurchaseDTO) WithIssuedCoupon(c *loyaltyDomain.Coupon) PurchaseDTO {
	if c != nil {
		d.CouponIssued = &IssuedCouponDTO{ID: c.ID(), Amount: c.Amount(), DueDate: c.DueDate()}
	}
	return d
}

// GetPurchaseQuery reads one purchase on behalf of a caller.
type GetPurchaseQuery struct {
	PurchaseID      uuid.UUID
	CallerAccountID uuid.UUID
	CallerIsAdmin   bool
}

// GetPurchaseHandler handles GetPurchaseQuery.
type GetPurchaseHandler struct {
	purchaseRepo domain.PurchaseRepository
}

// NewGetPurchaseHandler creates a new GetPurchaseHandler.
func NewGetPurchaseHandler(purchaseRepo domain.PurchaseRepository) *GetPurchaseHandler {
	return &GetPurchaseHandler{purchaseRepo: purchaseRepo}
}

// Handle returns the purchase when the caller made it or is an admin.
func (h *GetPurchaseHandler) Handle(ctx context.Context, query GetPurchaseQuery) (*PurchaseDTO, error) {
	purchase, err := h.purchaseRepo.FindByID(ctx, query.PurchaseID)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrPurchaseNotFound
	}
	if !query.CallerIsAdmin && !purchase.BelongsTo(query.CallerAccountID) {
		return nil, sharedDomain.ErrForbidden
	}
	dto := ToPurchaseDTO(purchase)
	return &dto, nil
}

// ListAccountPurchasesQuery lists an account's purchases on behalf of a caller.
type ListAccountPurchasesQuery struct {
	AccountID       uuid.UUID
	CallerAccountID uuid.UUID
	CallerIsAdmin   bool
}

// ListAccountPurchasesHandler handles ListAccountPurchasesQuery.
type ListAccountPurchasesHandler struct {
	purchaseRepo domain.PurchaseRepository
}

// NewListAccountPurchasesHandler creates a new ListAccountPurchasesHandler.
func NewListAccountPurchasesHandler(purchaseRepo domain.PurchaseRepository) *ListAccountPurchasesHandler {
	return &ListAccountPurchasesHandler{purchaseRepo: purchaseRepo}
}

func (h *ListAccountPurchasesHandler) Handle(ctx context.Context, query ListAccountPurchasesQuery) ([]PurchaseDTO, error) {
	if !query.CallerIsAdmin && query.AccountID != query.CallerAccountID {
		return nil, sharedDomain.ErrForbidden
	}
	purchases, err := h.purchaseRepo.ListByAccount(ctx, query.AccountID)
	if err != nil {
		return nil, err
	}
	dtos := make([]PurchaseDTO, 0, len(purchases))
	for _, p := range purchases {
		dtos = append(dtos, ToPurchaseDTO(p))
	}
	return dtos, nil
}
