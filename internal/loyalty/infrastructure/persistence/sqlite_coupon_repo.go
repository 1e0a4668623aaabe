package persistence

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/felixgeelhaar/gymstore/internal/loyalty/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	sharedPersistence "github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteCouponRepository implements domain.CouponRepository using SQLite.
type SQLiteCouponRepository struct {
	db *sql.DB
}

// NewSQLiteCouponRepository creates a new SQLite coupon repository.
func NewSQLiteCouponRepository(db *sql.DB) *SQLiteCouponRepository {
	return &SQLiteCouponRepository{db: db}
}

const sqliteCouponColumns = `id, account_id, issue_date, due_date, amount, spent, purchase_id, created_at, updated_at`

func (r *SQLiteCouponRepository) Create(ctx context.Context, c *domain.Coupon) error {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)
	var purchaseID sql.NullString
	if c.PurchaseID() != nil {
		purchaseID = sql.NullString{String: c.PurchaseID().String(), Valid: true}
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO coupons (`+sqliteCouponColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.ID().String(),
		c.AccountID().String(),
		c.IssueDate().String(),
		c.DueDate().String(),
		c.Amount().Decimal().String(),
		c.IsSpent(),
		purchaseID,
		sharedPersistence.SQLiteTime(c.CreatedAt()),
		sharedPersistence.SQLiteTime(c.UpdatedAt()),
	)
	return err
}

func (r *SQLiteCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Coupon, error) {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)
	row := q.QueryRowContext(ctx, `SELECT `+sqliteCouponColumns+` FROM coupons WHERE id = ?`, id.String())
	c, err := scanSQLiteCoupon(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// ListByAccount returns an account's coupons, soonest due first.
func (r *SQLiteCouponRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Coupon, error) {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)
	rows, err := q.QueryContext(ctx, `
		SELECT `+sqliteCouponColumns+` FROM coupons
		WHERE account_id = ?
		ORDER BY due_date, created_at
	`, accountID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []*domain.Coupon
	for rows.Next() {
		c, err := scanSQLiteCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

func (r *SQLiteCouponRepository) MarkSpent(ctx context.Context, id uuid.UUID) (bool, error) {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)
	result, err := q.ExecContext(ctx, `
		UPDATE coupons SET spent = 1, updated_at = ?
		WHERE id = ? AND spent = 0
	`, sharedPersistence.SQLiteTime(time.Now().UTC()), id.String())
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *SQLiteCouponRepository) LinkToPurchase(ctx context.Context, couponIDs []uuid.UUID, purchaseID uuid.UUID) error {
	if len(couponIDs) == 0 {
		return nil
	}
	args := []any{purchaseID.String(), sharedPersistence.SQLiteTime(time.Now().UTC())}
	placeholders := make([]string, len(couponIDs))
	for i, id := range couponIDs {
		placeholders[i] = "?"
		args = append(args, id.String())
	}

	q := sharedPersistence.SQLiteExecutor(ctx, r.db)
	_, err := q.ExecContext(ctx, `
		UPDATE coupons SET purchase_id = ?, updated_at = ?
		WHERE id IN (`+strings.Join(placeholders, ", ")+`)
	`, args...)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteCoupon(row rowScanner) (*domain.Coupon, error) {
	var (
		id, accountID, issue, due, amount string
		spent                             bool
		purchase                          sql.NullString
		createdAt, updatedAt              string
	)
	if err := row.Scan(&id, &accountID, &issue, &due, &amount, &spent, &purchase, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	couponID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	owner, err := uuid.Parse(accountID)
	if err != nil {
		return nil, err
	}
	issueDate, err := sharedDomain.ParseDate(issue)
	if err != nil {
		return nil, err
	}
	dueDate, err := sharedDomain.ParseDate(due)
	if err != nil {
		return nil, err
	}
	value, err := sharedDomain.ParseMoney(amount)
	if err != nil {
		return nil, err
	}
	var purchaseID *uuid.UUID
	if purchase.Valid {
		pid, err := uuid.Parse(purchase.String)
		if err != nil {
			return nil, err
		}
		purchaseID = &pid
	}
	created, err := sharedPersistence.ParseSQLiteTime(createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := sharedPersistence.ParseSQLiteTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateCoupon(couponID, owner, issueDate, dueDate, value, spent, purchaseID, created, updated), nil
}
