package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	sharedPersistence "github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLitePlanRepository implements domain.PlanRepository using SQLite.
type SQLitePlanRepository struct {
	db *sql.DB
}

// NewSQLitePlanRepository creates a new SQLite plan repository.
func NewSQLitePlanRepository(db *sql.DB) *SQLitePlanRepository {
	return &SQLitePlanRepository{db: db}
}

const planColumns = `id, name, price, description, image_url, plan_type, duration_days, created_at, updated_at`

func (r *SQLitePlanRepository) Create(ctx context.Context, p *domain.Plan) error {
	_, err := sharedPersistence.SQLiteExecutor(ctx, r.db).ExecContext(ctx, `
		INSERT INTO store_subscriptions (`+planColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID().String(), p.Name(), moneyParam(p.Price()), p.Description(), p.ImageURL(),
		p.PlanType(), p.DurationDays(),
		sharedPersistence.SQLiteTime(p.CreatedAt()),
		sharedPersistence.SQLiteTime(p.UpdatedAt()),
	)
	return err
}

func (r *SQLitePlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	row := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+planColumns+` FROM store_subscriptions WHERE id = ?`, id.String())
	p, err := scanSQLitePlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *SQLitePlanRepository) List(ctx context.Context) ([]*domain.Plan, error) {
	rows, err := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryContext(ctx,
		`SELECT `+planColumns+` FROM store_subscriptions ORDER BY duration_days, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		p, err := scanSQLitePlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func scanSQLitePlan(row rowScanner) (*domain.Plan, error) {
	var (
		id, name, price, description, imageURL, planType string
		durationDays                                     int
		createdAt, updatedAt                             string
	)
	if err := row.Scan(&id, &name, &price, &description, &imageURL, &planType, &durationDays, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	planID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	amount, err := sharedDomain.ParseMoney(price)
	if err != nil {
		return nil, err
	}
	created, err := sharedPersistence.ParseSQLiteTime(createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := sharedPersistence.ParseSQLiteTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return domain.RehydratePlan(planID, name, amount, description, imageURL, planType, durationDays, created, updated), nil
}
