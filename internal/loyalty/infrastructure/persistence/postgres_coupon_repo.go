package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/gymstore/internal/loyalty/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	sharedPersistence "github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCouponRepository implements domain.CouponRepository using PostgreSQL.
type PostgresCouponRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCouponRepository creates a new PostgreSQL coupon repository.
func NewPostgresCouponRepository(pool *pgxpool.Pool) *PostgresCouponRepository {
	return &PostgresCouponRepository{pool: pool}
}

const pgCouponColumns = `id, account_id, issue_date, due_date, amount::text, spent, purchase_id, created_at, updated_at`

func (r *PostgresCouponRepository) Create(ctx context.Context, c *domain.Coupon) error {
	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err := execer.Exec(ctx, `
		INSERT INTO coupons (id, account_id, issue_date, due_date, amount, spent, purchase_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		c.ID(),
		c.AccountID(),
		c.IssueDate().Time(),
		c.DueDate().Time(),
		c.Amount().Decimal().String(),
		c.IsSpent(),
		c.PurchaseID(),
		c.CreatedAt(),
		c.UpdatedAt(),
	)
	return err
}

func (r *PostgresCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Coupon, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	c, err := scanPostgresCoupon(execer.QueryRow(ctx,
		`SELECT `+pgCouponColumns+` FROM coupons WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *PostgresCouponRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Coupon, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, `
		SELECT `+pgCouponColumns+` FROM coupons
		WHERE account_id = $1
		ORDER BY due_date, created_at
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []*domain.Coupon
	for rows.Next() {
		c, err := scanPostgresCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

func (r *PostgresCouponRepository) MarkSpent(ctx context.Context, id uuid.UUID) (bool, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	tag, err := execer.Exec(ctx, `
		UPDATE coupons SET spent = TRUE, updated_at = $2
		WHERE id = $1 AND spent = FALSE
	`, id, time.Now().UTC())
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PostgresCouponRepository) LinkToPurchase(ctx context.Context, couponIDs []uuid.UUID, purchaseID uuid.UUID) error {
	if len(couponIDs) == 0 {
		return nil
	}
	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err := execer.Exec(ctx, `
		UPDATE coupons SET purchase_id = $1, updated_at = $2
		WHERE id = ANY($3)
	`, purchaseID, time.Now().UTC(), couponIDs)
	return err
}

func scanPostgresCoupon(row pgx.Row) (*domain.Coupon, error) {
	var (
		id, accountID        uuid.UUID
		issue, due           time.Time
		amount               string
		spent                bool
		purchaseID           *uuid.UUID
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &accountID, &issue, &due, &amount, &spent, &purchaseID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	value, err := sharedDomain.ParseMoney(amount)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateCoupon(
		id, accountID,
		sharedDomain.DateOf(issue), sharedDomain.DateOf(due),
		value, spent, purchaseID, createdAt, updatedAt,
	), nil
}
