package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	aggregateType = "Purchase"

	RoutingKeyPurchaseCompleted = "purchasing.purchase.completed"
)

// PurchaseLineSummary is one line of a completed purchase event.
type PurchaseLineSummary struct {
	ProductID uuid.UUID          `json:"product_id"`
	Quantity  int                `json:"quantity"`
	Subtotal  sharedDomain.Money `json:"subtotal"`
}

// PurchaseCompleted is emitted when a purchase commits.
type PurchaseCompleted struct {
	sharedDomain.BaseEvent
	PurchaseID          uuid.UUID             `json:"purchase_id"`
	AccountID           uuid.UUID             `json:"account_id"`
	PurchaseDate        time.Time             `json:"purchase_date"`
	PlanID              *uuid.UUID            `json:"plan_id,omitempty"`
	Lines               []PurchaseLineSummary `json:"lines"`
	CouponIDs           []uuid.UUID           `json:"coupon_ids"`
	Total               sharedDomain.Money    `json:"total"`
	Discount            sharedDomain.Money    `json:"discount"`
	TotalAfterDiscounts sharedDomain.Money    `json:"total_after_discounts"`
}

func NewPurchaseCompleted(p *Purchase) *PurchaseCompleted {
	lines := make([]PurchaseLineSummary, len(p.details))
	for i, d := range p.details {
		lines[i] = PurchaseLineSummary{ProductID: d.ProductID, Quantity: d.Quantity, Subtotal: d.Subtotal}
	}
	return &PurchaseCompleted{
		BaseEvent:           sharedDomain.NewBaseEvent(p.ID(), aggregateType, RoutingKeyPurchaseCompleted),
		PurchaseID:          p.ID(),
		AccountID:           p.accountID,
		PurchaseDate:        p.purchaseDate,
		PlanID:              p.planID,
		Lines:               lines,
		CouponIDs:           p.CouponIDs(),
		Total:               p.total,
		Discount:            p.discount,
		TotalAfterDiscounts: p.totalAfterDiscounts,
	}
}
