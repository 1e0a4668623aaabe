package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	accountsDomain "github.com/felixgeelhaar/gymstore/internal/accounts/domain"
	catalogDomain "github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	loyaltyDomain "github.com/felixgeelhaar/gymstore/internal/loyalty/domain"
	membershipDomain "github.com/felixgeelhaar/gymstore/internal/membership/domain"
	"github.com/felixgeelhaar/gymstore/internal/purchasing/domain"
	sharedApplication "github.com/felixgeelhaar/gymstore/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	"github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/gymstore/pkg/observability"
	"github.com/google/uuid"
)

// DefaultMaxAttempts bounds how often a purchase is retried after losing an
// optimistic-concurrency race.
const DefaultMaxAttempts = 3

// PurchaseLine requests a quantity of one product.
type PurchaseLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreatePurchaseCommand buys products and optionally a plan for an account,
// paying with store credit after applying coupons.
type CreatePurchaseCommand struct {
	AccountID uuid.UUID
	PlanID    *uuid.UUID
	Lines     []PurchaseLine
	CouponIDs []uuid.UUID
}

// PurchaseResult is a committed purchase.
type PurchaseResult struct {
	Purchase *domain.Purchase
	// CouponIssued is the loyalty coupon granted for the purchase.
	CouponIssued *loyaltyDomain.Coupon
	// Subscription is set when the purchase renewed the account's subscription.
	Subscription *membershipDomain.Subscription
	Attempts     int
}

// EngineOptions tunes the purchase engine. Zero values fall back to defaults.
type EngineOptions struct {
	MaxAttempts         int
	HonorExpiredCoupons bool
	Clock               sharedApplication.Clock
	Logger              *slog.Logger
	Metrics             observability.Metrics
}

// CreatePurchaseHandler runs a purchase as one unit of work: either stock,
// coupons, credit, the purchase record, the loyalty coupon and the
// subscription all change, or none do.
type CreatePurchaseHandler struct {
	inventory     Inventory
	coupons       CouponLedger
	accounts      AccountLedger
	subscriptions SubscriptionLedger
	purchases     domain.PurchaseRepository
	outboxRepo    outbox.Repository
	uow           sharedApplication.UnitOfWork

	maxAttempts  int
	honorExpired bool
	clock        sharedApplication.Clock
	logger       *slog.Logger
	metrics      observability.Metrics
}

// NewCreatePurchaseHandler creates a new CreatePurchaseHandler.
func NewCreatePurchaseHandler(
	inventory Inventory,
	coupons CouponLedger,
	accounts AccountLedger,
	subscriptions SubscriptionLedger,
	purchases domain.PurchaseRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	opts EngineOptions,
) *CreatePurchaseHandler {
	h := &CreatePurchaseHandler{
		inventory:     inventory,
		coupons:       coupons,
		accounts:      accounts,
		subscriptions: subscriptions,
		purchases:     purchases,
		outboxRepo:    outboxRepo,
		uow:           uow,
		maxAttempts:   opts.MaxAttempts,
		honorExpired:  opts.HonorExpiredCoupons,
		clock:         opts.Clock,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
	}
	if h.maxAttempts < 1 {
		h.maxAttempts = DefaultMaxAttempts
	}
	if h.clock == nil {
		h.clock = sharedApplication.SystemClock
	}
	if h.logger == nil {
		h.logger = observability.DiscardLogger()
	}
	if h.metrics == nil {
		h.metrics = observability.NoopMetrics{}
	}
	h.logger = observability.LogOperation(h.logger, "create_purchase")
	return h
}

// Handle executes the CreatePurchaseCommand.
func (h *CreatePurchaseHandler) Handle(ctx context.Context, cmd CreatePurchaseCommand) (*PurchaseResult, error) {
	timer := observability.StartTimer(observability.MetricPurchaseDuration).WithMetrics(h.metrics)

	result, err := h.handle(ctx, cmd)
	timer.Stop(ctx, err)

	if err != nil {
		reason := abortReason(err)
		h.metrics.Counter(observability.MetricPurchasesAborted, 1, observability.T("reason", reason))
		if reason == reasonInternal {
			h.logger.ErrorContext(ctx, "purchase failed",
				"account_id", cmd.AccountID,
				"lines", lineAttrs(cmd.Lines),
				"coupon_ids", cmd.CouponIDs,
				observability.ErrorKey, err.Error(),
			)
		} else {
			h.logger.InfoContext(ctx, "purchase rejected",
				"account_id", cmd.AccountID,
				"reason", reason,
			)
		}
		return nil, err
	}

	h.metrics.Counter(observability.MetricPurchasesCommitted, 1)
	h.metrics.Counter(observability.MetricCouponsRedeemed, int64(len(cmd.CouponIDs)))
	if result.CouponIssued != nil {
		h.metrics.Counter(observability.MetricCouponsIssued, 1)
	}
	h.logger.InfoContext(ctx, "purchase committed",
		"account_id", cmd.AccountID,
		"purchase_id", result.Purchase.ID(),
		"total", result.Purchase.TotalAfterDiscounts().String(),
		"attempts", result.Attempts,
	)
	return result, nil
}

func (h *CreatePurchaseHandler) handle(ctx context.Context, cmd CreatePurchaseCommand) (*PurchaseResult, error) {
	if err := h.validate(ctx, cmd); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= h.maxAttempts; attempt++ {
		result, err := sharedApplication.InUnitOfWork(ctx, h.uow, func(txCtx context.Context) (*PurchaseResult, error) {
			return h.execute(txCtx, cmd)
		})
		if err == nil {
			result.Attempts = attempt
			return result, nil
		}
		if !errors.Is(err, sharedDomain.ErrConcurrentModification) {
			return nil, err
		}
		lastErr = err
		if attempt < h.maxAttempts {
			h.metrics.Counter(observability.MetricPurchasesRetried, 1)
			h.logger.WarnContext(ctx, "purchase lost a concurrent update, retrying",
				"account_id", cmd.AccountID,
				"attempt", attempt,
			)
		}
	}
	return nil, fmt.Errorf("purchase gave up after %d attempts: %w", h.maxAttempts, lastErr)
}

// validate rejects malformed or unpayable requests before anything is
// touched.
func (h *CreatePurchaseHandler) validate(ctx context.Context, cmd CreatePurchaseCommand) error {
	if len(cmd.Lines) == 0 && cmd.PlanID == nil {
		return domain.ErrEmptyPurchase
	}
	for _, l := range cmd.Lines {
		if !catalogDomain.ValidQuantity(l.Quantity) {
			return catalogDomain.ErrInvalidQuantity
		}
	}
	seen := make(map[uuid.UUID]struct{}, len(cmd.CouponIDs))
	for _, id := range cmd.CouponIDs {
		if _, dup := seen[id]; dup {
			return domain.ErrDuplicateCoupon
		}
		seen[id] = struct{}{}
	}

	if _, err := h.accounts.GetAccount(ctx, cmd.AccountID); err != nil {
		return err
	}
	for _, l := range cmd.Lines {
		if _, err := h.inventory.GetProduct(ctx, l.ProductID); err != nil {
			return err
		}
	}
	now := h.clock.Now()
	for _, id := range cmd.CouponIDs {
		coupon, err := h.coupons.Get(ctx, id)
		if err != nil {
			return err
		}
		// Another account's coupon is reported as missing.
		if !coupon.BelongsTo(cmd.AccountID) {
			return loyaltyDomain.ErrCouponNotFound
		}
		if coupon.IsSpent() {
			return loyaltyDomain.ErrCouponAlreadySpent
		}
		if !h.honorExpired && coupon.IsExpired(now) {
			return loyaltyDomain.ErrCouponExpired
		}
	}
	if cmd.PlanID != nil {
		if _, err := h.inventory.GetPlan(ctx, *cmd.PlanID); err != nil {
			return err
		}
	}
	return nil
}

// execute performs one attempt inside a unit of work. Any error rolls the
// whole attempt back.
func (h *CreatePurchaseHandler) execute(ctx context.Context, cmd CreatePurchaseCommand) (*PurchaseResult, error) {
	lines := make([]domain.Line, 0, len(cmd.Lines))
	for _, l := range cmd.Lines {
		product, err := h.inventory.ReserveStock(ctx, l.ProductID, l.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, domain.Line{
			ProductID:   product.ID(),
			ProductName: product.Name(),
			Quantity:    l.Quantity,
			UnitPrice:   product.Price(),
		})
	}

	var plan *catalogDomain.Plan
	planPrice := sharedDomain.ZeroMoney
	if cmd.PlanID != nil {
		p, err := h.inventory.GetPlan(ctx, *cmd.PlanID)
		if err != nil {
			return nil, err
		}
		plan = p
		planPrice = p.Price()
	}

	var events []sharedDomain.DomainEvent
	applied := make([]domain.AppliedCoupon, 0, len(cmd.CouponIDs))
	for _, id := range cmd.CouponIDs {
		coupon, err := h.coupons.Redeem(ctx, id)
		if err != nil {
			return nil, err
		}
		applied = append(applied, domain.AppliedCoupon{CouponID: coupon.ID(), Amount: coupon.Amount()})
		events = append(events, coupon.DomainEvents()...)
	}

	purchase, err := domain.NewPurchase(cmd.AccountID, h.clock.Now(), cmd.PlanID, planPrice, lines, applied)
	if err != nil {
		return nil, err
	}

	account, err := h.accounts.GetAccount(ctx, cmd.AccountID)
	if err != nil {
		return nil, err
	}
	if !account.CanAfford(purchase.TotalAfterDiscounts()) {
		return nil, accountsDomain.ErrInsufficientCredit
	}
	if err := h.accounts.DebitAccount(ctx, account, purchase.TotalAfterDiscounts()); err != nil {
		return nil, err
	}

	if err := h.purchases.Save(ctx, purchase); err != nil {
		return nil, fmt.Errorf("save purchase: %w", err)
	}
	if err := h.coupons.LinkToPurchase(ctx, purchase.CouponIDs(), purchase.ID()); err != nil {
		return nil, fmt.Errorf("link coupons: %w", err)
	}
	events = append(events, purchase.DomainEvents()...)

	issued, err := h.coupons.IssueForPurchase(ctx, cmd.AccountID, account.Tier(), purchase.Total())
	if err != nil {
		return nil, fmt.Errorf("issue loyalty coupon: %w", err)
	}
	events = append(events, issued.DomainEvents()...)

	result := &PurchaseResult{Purchase: purchase, CouponIssued: issued}

	if plan != nil {
		sub, err := h.subscriptions.GetByAccount(ctx, cmd.AccountID)
		if err != nil {
			return nil, err
		}
		if sub.IsExpired(h.clock.Now()) {
			renewed, err := h.subscriptions.Rollover(ctx, cmd.AccountID, plan)
			if err != nil {
				return nil, err
			}
			events = append(events, renewed.DomainEvents()...)
			result.Subscription = renewed
		}
	}

	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, cmd.AccountID))
	if err := outbox.SaveEvents(ctx, h.outboxRepo, events); err != nil {
		return nil, err
	}
	return result, nil
}

const reasonInternal = "internal"

var abortReasons = []struct {
	err    error
	reason string
}{
	{domain.ErrEmptyPurchase, "empty_purchase"},
	{catalogDomain.ErrInvalidQuantity, "invalid_quantity"},
	{domain.ErrDuplicateCoupon, "duplicate_coupon"},
	{accountsDomain.ErrAccountNotFound, "account_not_found"},
	{catalogDomain.ErrProductNotFound, "product_not_found"},
	{catalogDomain.ErrPlanNotFound, "plan_not_found"},
	{loyaltyDomain.ErrCouponNotFound, "coupon_not_found"},
	{loyaltyDomain.ErrCouponAlreadySpent, "coupon_spent"},
	{loyaltyDomain.ErrCouponExpired, "coupon_expired"},
	{catalogDomain.ErrNotEnoughStock, "not_enough_stock"},
	{domain.ErrCouponDiscountExceeded, "discount_exceeded"},
	{accountsDomain.ErrInsufficientCredit, "insufficient_credit"},
	{membershipDomain.ErrSubscriptionNotFound, "subscription_not_found"},
	{sharedDomain.ErrConcurrentModification, "concurrent_modification"},
}

func abortReason(err error) string {
	for _, r := range abortReasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return reasonInternal
}

func lineAttrs(lines []PurchaseLine) []map[string]any {
	out := make([]map[string]any, len(lines))
	for i, l := range lines {
		out[i] = map[string]any{"product_id": l.ProductID.String(), "quantity": l.Quantity}
	}
	return out
}
