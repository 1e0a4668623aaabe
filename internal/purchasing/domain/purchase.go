package domain

import (
	"errors"
	"time"

	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrPurchaseNotFound       = errors.New("purchase not found")
	ErrEmptyPurchase          = errors.New("purchase has no products and no subscription")
	ErrDuplicateCoupon        = errors.New("coupon listed more than once")
	ErrCouponDiscountExceeded = errors.New("coupon discount exceeds half of the purchase total")
)

// Line is one product line as priced at reservation time.
type Line struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   sharedDomain.Money
}

// Subtotal is the unit price times the quantity.
func (l Line) Subtotal() sharedDomain.Money {
	return l.UnitPrice.Times(l.Quantity)
}

// AppliedCoupon is a coupon spent on a purchase.
type AppliedCoupon struct {
	CouponID uuid.UUID
	Amount   sharedDomain.Money
}

// Detail is a persisted purchase line.
type Detail struct {
	ID          uuid.UUID
	LineNo      int
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   sharedDomain.Money
	Subtotal    sharedDomain.Money
}

// Purchase is a committed order: product lines, an optional plan and the
// coupons spent on it.
type Purchase struct {
	sharedDomain.BaseAggregateRoot
	accountID           uuid.UUID
	purchaseDate        time.Time
	planID              *uuid.UUID
	subscriptionPrice   sharedDomain.Money
	total               sharedDomain.Money
	discount            sharedDomain.Money
	totalAfterDiscounts sharedDomain.Money
	details             []Detail
	coupons             []AppliedCoupon
}

// GrossTotal sums the line subtotals and the plan price, rounded to cents.
func GrossTotal(lines []Line, planPrice sharedDomain.Money) sharedDomain.Money {
	total := planPrice
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total.Round()
}

// CheckDiscount fails when the discount is more than half of total.
func CheckDiscount(total, discount sharedDomain.Money) error {
	if discount.Times(2).GreaterThan(total) {
		return ErrCouponDiscountExceeded
	}
	return nil
}

// NewPurchase prices a purchase. planID is nil when no plan is bought, in
// which case planPrice should be zero.
func NewPurchase(
	accountID uuid.UUID,
	purchaseDate time.Time,
	planID *uuid.UUID,
	planPrice sharedDomain.Money,
	lines []Line,
	coupons []AppliedCoupon,
) (*Purchase, error) {
	if len(lines) == 0 && planID == nil {
		return nil, ErrEmptyPurchase
	}

	total := GrossTotal(lines, planPrice)
	discount := sharedDomain.ZeroMoney
	for _, c := range coupons {
		discount = discount.Add(c.Amount)
	}
	if err := CheckDiscount(total, discount); err != nil {
		return nil, err
	}

	details := make([]Detail, len(lines))
	for i, l := range lines {
		details[i] = Detail{
			ID:          uuid.New(),
			LineNo:      i + 1,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal(),
		}
	}

	p := &Purchase{
		BaseAggregateRoot:   sharedDomain.NewBaseAggregateRoot(),
		accountID:           accountID,
		purchaseDate:        purchaseDate.UTC(),
		planID:              planID,
		subscriptionPrice:   planPrice,
		total:               total,
		discount:            discount,
		totalAfterDiscounts: total.Sub(discount).Round(),
		details:             details,
		coupons:             append([]AppliedCoupon(nil), coupons...),
	}
	p.AddDomainEvent(NewPurchaseCompleted(p))
	return p, nil
}

func (p *Purchase) AccountID() uuid.UUID                    { return p.accountID }
func (p *Purchase) PurchaseDate() time.Time                 { return p.purchaseDate }
func (p *Purchase) PlanID() *uuid.UUID                      { return p.planID }
func (p *Purchase) SubscriptionPrice() sharedDomain.Money   { return p.subscriptionPrice }
func (p *Purchase) Total() sharedDomain.Money               { return p.total }
func (p *Purchase) Discount() sharedDomain.Money            { return p.discount }
func (p *Purchase) TotalAfterDiscounts() sharedDomain.Money { return p.totalAfterDiscounts }
func (p *Purchase) Details() []Detail                       { return p.details }
func (p *Purchase) Coupons() []AppliedCoupon                { return p.coupons }

// CouponIDs lists the ids of the coupons spent on the purchase.
func (p *Purchase) CouponIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(p.coupons))
	for i, c := range p.coupons {
		ids[i] = c.CouponID
	}
	return ids
}

// BelongsTo reports whether the purchase was made by accountID.
func (p *Purchase) BelongsTo(accountID uuid.UUID) bool {
	return p.accountID == accountID
}

// RehydratePurchase recreates a purchase from persisted state without events.
func RehydratePurchase(
	id, accountID uuid.UUID,
	purchaseDate time.Time,
	planID *uuid.UUID,
	subscriptionPrice, total, discount, totalAfterDiscounts sharedDomain.Money,
	details []Detail,
	coupons []AppliedCoupon,
) *Purchase {
	return &Purchase{
		BaseAggregateRoot:   sharedDomain.RehydrateBaseAggregateRoot(sharedDomain.RehydrateBaseEntity(id, purchaseDate, purchaseDate), 0),
		accountID:           accountID,
		purchaseDate:        purchaseDate,
		planID:              planID,
		subscriptionPrice:   subscriptionPrice,
		total:               total,
		discount:            discount,
		totalAfterDiscounts: totalAfterDiscounts,
		details:             details,
		coupons:             coupons,
	}
}
