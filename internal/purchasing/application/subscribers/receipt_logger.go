package subscribers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/gymstore/internal/purchasing/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

type receipt struct {
	PurchaseID          uuid.UUID          `json:"purchase_id"`
	AccountID           uuid.UUID          `json:"account_id"`
	Discount            sharedDomain.Money `json:"discount"`
	TotalAfterDiscounts sharedDomain.Money `json:"total_after_discounts"`
}

// ReceiptLogger logs a receipt line for every completed purchase relayed in
// process.
type ReceiptLogger struct {
	logger *slog.Logger
}

// NewReceiptLogger creates a ReceiptLogger.
func NewReceiptLogger(logger *slog.Logger) *ReceiptLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReceiptLogger{logger: logger}
}

func (r *ReceiptLogger) EventTypes() []string {
	return []string{domain.RoutingKeyPurchaseCompleted}
}

func (r *ReceiptLogger) Handle(ctx context.Context, event *eventbus.Envelope) error {
	var body receipt
	if err := event.DecodePayload(&body); err != nil {
		return fmt.Errorf("decode purchase completed: %w", err)
	}
	r.logger.InfoContext(ctx, "purchase receipt",
		"purchase_id", body.PurchaseID,
		"account_id", body.AccountID,
		"discount", body.Discount.String(),
		"paid", body.TotalAfterDiscounts.String(),
	)
	return nil
}
