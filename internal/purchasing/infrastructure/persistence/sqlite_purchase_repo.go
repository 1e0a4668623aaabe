package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/gymstore/internal/purchasing/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	sharedPersistence "github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLitePurchaseRepository implements domain.PurchaseRepository using SQLite.
type SQLitePurchaseRepository struct {
	db *sql.DB
}

// NewSQLitePurchaseRepository creates a new SQLite purchase repository.
func NewSQLitePurchaseRepository(db *sql.DB) *SQLitePurchaseRepository {
	return &SQLitePurchaseRepository{db: db}
}

const sqlitePurchaseColumns = `id, account_id, purchase_date, store_subscription_id, subscription_price, total, discount, total_after_discounts`

// Save inserts the purchase and its details. Call it inside a unit of work
// so both land together.
func (r *SQLitePurchaseRepository) Save(ctx context.Context, p *domain.Purchase) error {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)

	var planID sql.NullString
	if p.PlanID() != nil {
		planID = sql.NullString{String: p.PlanID().String(), Valid: true}
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO purchases (`+sqlitePurchaseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID().String(),
		p.AccountID().String(),
		sharedPersistence.SQLiteTime(p.PurchaseDate()),
		planID,
		p.SubscriptionPrice().Decimal().String(),
		p.Total().Decimal().String(),
		p.Discount().Decimal().String(),
		p.TotalAfterDiscounts().Decimal().String(),
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}

	for _, d := range p.Details() {
		_, err := q.ExecContext(ctx, `
			INSERT INTO purchase_details (id, purchase_id, line_no, product_id, product_name, quantity, unit_price, subtotal)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			d.ID.String(),
			p.ID().String(),
			d.LineNo,
			d.ProductID.String(),
			d.ProductName,
			d.Quantity,
			d.UnitPrice.Decimal().String(),
			d.Subtotal.Decimal().String(),
		)
		if err != nil {
			return fmt.Errorf("insert purchase detail %d: %w", d.LineNo, err)
		}
	}
	return nil
}

func (r *SQLitePurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error) {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)
	row, err := scanSQLitePurchase(q.QueryRowContext(ctx,
		`SELECT `+sqlitePurchaseColumns+` FROM purchases WHERE id = ?`, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.load(ctx, q, row)
}

// ListByAccount returns an account's purchases, newest first.
func (r *SQLitePurchaseRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Purchase, error) {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)
	rows, err := q.QueryContext(ctx, `
		SELECT `+sqlitePurchaseColumns+` FROM purchases
		WHERE account_id = ?
		ORDER BY purchase_date DESC, id
	`, accountID.String())
	if err != nil {
		return nil, err
	}

	var headers []purchaseRow
	for rows.Next() {
		h, err := scanSQLitePurchase(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		headers = append(headers, h)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// The single pooled connection must be released before details are read.
	rows.Close()

	purchases := make([]*domain.Purchase, 0, len(headers))
	for _, h := range headers {
		p, err := r.load(ctx, q, h)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, nil
}

func (r *SQLitePurchaseRepository) load(ctx context.Context, q sharedPersistence.SQLiteQuerier, h purchaseRow) (*domain.Purchase, error) {
	details, err := r.loadDetails(ctx, q, h.id)
	if err != nil {
		return nil, err
	}
	coupons, err := r.loadCoupons(ctx, q, h.id)
	if err != nil {
		return nil, err
	}
	return h.toDomain(details, coupons), nil
}

func (r *SQLitePurchaseRepository) loadDetails(ctx context.Context, q sharedPersistence.SQLiteQuerier, purchaseID uuid.UUID) ([]domain.Detail, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, line_no, product_id, product_name, quantity, unit_price, subtotal
		FROM purchase_details
		WHERE purchase_id = ?
		ORDER BY line_no
	`, purchaseID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []domain.Detail
	for rows.Next() {
		var (
			id, productID, unitPrice, subtotal string
			d                                  domain.Detail
		)
		if err := rows.Scan(&id, &d.LineNo, &productID, &d.ProductName, &d.Quantity, &unitPrice, &subtotal); err != nil {
			return nil, err
		}
		if d.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if d.ProductID, err = uuid.Parse(productID); err != nil {
			return nil, err
		}
		if d.UnitPrice, err = sharedDomain.ParseMoney(unitPrice); err != nil {
			return nil, err
		}
		if d.Subtotal, err = sharedDomain.ParseMoney(subtotal); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *SQLitePurchaseRepository) loadCoupons(ctx context.Context, q sharedPersistence.SQLiteQuerier, purchaseID uuid.UUID) ([]domain.AppliedCoupon, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, amount FROM coupons
		WHERE purchase_id = ?
		ORDER BY created_at, id
	`, purchaseID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []domain.AppliedCoupon
	for rows.Next() {
		var id, amount string
		if err := rows.Scan(&id, &amount); err != nil {
			return nil, err
		}
		var c domain.AppliedCoupon
		if c.CouponID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if c.Amount, err = sharedDomain.ParseMoney(amount); err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLitePurchase(row rowScanner) (purchaseRow, error) {
	var (
		id, accountID, purchaseDate          string
		planID                               sql.NullString
		planPrice, total, discount, totalNet string
	)
	if err := row.Scan(&id, &accountID, &purchaseDate, &planID, &planPrice, &total, &discount, &totalNet); err != nil {
		return purchaseRow{}, err
	}

	var (
		h   purchaseRow
		err error
	)
	if h.id, err = uuid.Parse(id); err != nil {
		return purchaseRow{}, err
	}
	if h.accountID, err = uuid.Parse(accountID); err != nil {
		return purchaseRow{}, err
	}
	if h.purchaseDate, err = sharedPersistence.ParseSQLiteTime(purchaseDate); err != nil {
		return purchaseRow{}, err
	}
	if planID.Valid {
		pid, err := uuid.Parse(planID.String)
		if err != nil {
			return purchaseRow{}, err
		}
		h.planID = &pid
	}
	if err := h.parseAmounts(planPrice, total, discount, totalNet); err != nil {
		return purchaseRow{}, err
	}
	return h, nil
}
