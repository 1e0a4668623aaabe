package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/gymstore/internal/purchasing/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	sharedPersistence "github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPurchaseRepository implements domain.PurchaseRepository using PostgreSQL.
type PostgresPurchaseRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPurchaseRepository creates a new PostgreSQL purchase repository.
func NewPostgresPurchaseRepository(pool *pgxpool.Pool) *PostgresPurchaseRepository {
	return &PostgresPurchaseRepository{pool: pool}
}

const pgPurchaseColumns = `id, account_id, purchase_date, store_subscription_id,
	subscription_price::text, total::text, discount::text, total_after_discounts::text`

func (r *PostgresPurchaseRepository) Save(ctx context.Context, p *domain.Purchase) error {
	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err := execer.Exec(ctx, `
		INSERT INTO purchases (id, account_id, purchase_date, store_subscription_id,
			subscription_price, total, discount, total_after_discounts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		p.ID(),
		p.AccountID(),
		p.PurchaseDate(),
		p.PlanID(),
		p.SubscriptionPrice().Decimal().String(),
		p.Total().Decimal().String(),
		p.Discount().Decimal().String(),
		p.TotalAfterDiscounts().Decimal().String(),
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}

	for _, d := range p.Details() {
		_, err := execer.Exec(ctx, `
			INSERT INTO purchase_details (id, purchase_id, line_no, product_id, product_name, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`,
			d.ID, p.ID(), d.LineNo, d.ProductID, d.ProductName, d.Quantity,
			d.UnitPrice.Decimal().String(), d.Subtotal.Decimal().String(),
		)
		if err != nil {
			return fmt.Errorf("insert purchase detail %d: %w", d.LineNo, err)
		}
	}
	return nil
}

func (r *PostgresPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	h, err := scanPostgresPurchase(execer.QueryRow(ctx,
		`SELECT `+pgPurchaseColumns+` FROM purchases WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.load(ctx, execer, h)
}

func (r *PostgresPurchaseRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Purchase, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, `
		SELECT `+pgPurchaseColumns+` FROM purchases
		WHERE account_id = $1
		ORDER BY purchase_date DESC, id
	`, accountID)
	if err != nil {
		return nil, err
	}
	headers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (purchaseRow, error) {
		return scanPostgresPurchase(row)
	})
	if err != nil {
		return nil, err
	}

	purchases := make([]*domain.Purchase, 0, len(headers))
	for _, h := range headers {
		p, err := r.load(ctx, execer, h)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, nil
}

func (r *PostgresPurchaseRepository) load(ctx context.Context, execer sharedPersistence.DBExecutor, h purchaseRow) (*domain.Purchase, error) {
	rows, err := execer.Query(ctx, `
		SELECT id, line_no, product_id, product_name, quantity, unit_price::text, subtotal::text
		FROM purchase_details
		WHERE purchase_id = $1
		ORDER BY line_no
	`, h.id)
	if err != nil {
		return nil, err
	}
	details, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Detail, error) {
		var (
			d                   domain.Detail
			unitPrice, subtotal string
		)
		if err := row.Scan(&d.ID, &d.LineNo, &d.ProductID, &d.ProductName, &d.Quantity, &unitPrice, &subtotal); err != nil {
			return d, err
		}
		var err error
		if d.UnitPrice, err = sharedDomain.ParseMoney(unitPrice); err != nil {
			return d, err
		}
		d.Subtotal, err = sharedDomain.ParseMoney(subtotal)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("load purchase details: %w", err)
	}

	rows, err = execer.Query(ctx, `
		SELECT id, amount::text FROM coupons
		WHERE purchase_id = $1
		ORDER BY created_at, id
	`, h.id)
	if err != nil {
		return nil, err
	}
	coupons, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.AppliedCoupon, error) {
		var (
			c      domain.AppliedCoupon
			amount string
		)
		if err := row.Scan(&c.CouponID, &amount); err != nil {
			return c, err
		}
		var err error
		c.Amount, err = sharedDomain.ParseMoney(amount)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("load applied coupons: %w", err)
	}

	return h.toDomain(details, coupons), nil
}

func scanPostgresPurchase(row pgx.Row) (purchaseRow, error) {
	var (
		h                                    purchaseRow
		planPrice, total, discount, totalNet string
	)
	if err := row.Scan(&h.id, &h.accountID, &h.purchaseDate, &h.planID, &planPrice, &total, &discount, &totalNet); err != nil {
		return purchaseRow{}, err
	}
	if err := h.parseAmounts(planPrice, total, discount, totalNet); err != nil {
		return purchaseRow{}, err
	}
	return h, nil
}
