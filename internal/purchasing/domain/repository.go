package domain

import (
	"context"

	"github.com/google/uuid"
)

// PurchaseRepository stores purchases with their details. Applied coupons
// are read back from the coupons linked to the purchase.
type PurchaseRepository interface {
	Save(ctx context.Context, p *Purchase) error
	FindByID(ctx context.Context, id uuid.UUID) (*Purchase, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*Purchase, error)
}
