package persistence

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	sharedPersistence "github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPlanRepository implements domain.PlanRepository using PostgreSQL.
type PostgresPlanRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPlanRepository creates a new PostgreSQL plan repository.
func NewPostgresPlanRepository(pool *pgxpool.Pool) *PostgresPlanRepository {
	return &PostgresPlanRepository{pool: pool}
}

const pgPlanColumns = `id, name, price::text, description, image_url, plan_type, duration_days, created_at, updated_at`

func (r *PostgresPlanRepository) Create(ctx context.Context, p *domain.Plan) error {
	_, err := sharedPersistence.Executor(ctx, r.pool).Exec(ctx, `
		INSERT INTO store_subscriptions (`+planColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		p.ID(), p.Name(), moneyParam(p.Price()), p.Description(), p.ImageURL(),
		p.PlanType(), p.DurationDays(), p.CreatedAt(), p.UpdatedAt(),
	)
	return err
}

func (r *PostgresPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	row := sharedPersistence.Executor(ctx, r.pool).QueryRow(ctx,
		`SELECT `+pgPlanColumns+` FROM store_subscriptions WHERE id = $1`, id)
	p, err := scanPostgresPlan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *PostgresPlanRepository) List(ctx context.Context) ([]*domain.Plan, error) {
	rows, err := sharedPersistence.Executor(ctx, r.pool).Query(ctx,
		`SELECT `+pgPlanColumns+` FROM store_subscriptions ORDER BY duration_days, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		p, err := scanPostgresPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func scanPostgresPlan(row pgx.Row) (*domain.Plan, error) {
	var (
		p     planRow
		price string
	)
	if err := row.Scan(&p.ID, &p.Name, &price, &p.Description, &p.ImageURL, &p.PlanType, &p.DurationDays, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	amount, err := sharedDomain.ParseMoney(price)
	if err != nil {
		return nil, err
	}
	return domain.RehydratePlan(p.ID, p.Name, amount, p.Description, p.ImageURL, p.PlanType, p.DurationDays, p.CreatedAt, p.UpdatedAt), nil
}
