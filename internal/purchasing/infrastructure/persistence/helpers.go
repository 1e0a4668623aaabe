package persistence

import (
	"time"

	"github.com/felixgeelhaar/gymstore/internal/purchasing/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/google/uuid"
)

// purchaseRow is a purchases header read before its details are loaded.
type purchaseRow struct {
	id                  uuid.UUID
	accountID           uuid.UUID
	purchaseDate        time.Time
	planID              *uuid.UUID
	subscriptionPrice   sharedDomain.Money
	total               sharedDomain.Money
	discount            sharedDomain.Money
	totalAfterDiscounts sharedDomain.Money
}

func (h *purchaseRow) parseAmounts(planPrice, total, discount, totalNet string) error {
	var err error
	if h.subscriptionPrice, err = sharedDomain.ParseMoney(planPrice); err != nil {
		return err
	}
	if h.total, err = sharedDomain.ParseMoney(total); err != nil {
		return err
	}
	if h.discount, err = sharedDomain.ParseMoney(discount); err != nil {
		return err
	}
	h.totalAfterDiscounts, err = sharedDomain.ParseMoney(totalNet)
	return err
}

func (h purchaseRow) toDomain(details []domain.Detail, coupons []domain.AppliedCoupon) *domain.Purchase {
	return domain.RehydratePurchase(
		h.id, h.accountID, h.purchaseDate, h.planID,
		h.subscriptionPrice, h.total, h.discount, h.totalAfterDiscounts,
		details, coupons,
	)
}
