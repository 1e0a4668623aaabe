package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/gymstore/internal/membership/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	sharedPersistence "github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSubscriptionRepository implements domain.SubscriptionRepository using PostgreSQL.
type PostgresSubscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSubscriptionRepository creates a new PostgreSQL subscription repository.
func NewPostgresSubscriptionRepository(pool *pgxpool.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool}
}

type pgRow struct {
	status                          string
	name, price, imageURL, planType string
	startDate, endDate              *time.Time
}

func toPgRow(s *domain.Subscription) pgRow {
	row := pgRow{status: string(s.Status()), price: "0"}
	if p, ok := s.Period(); ok {
		start, end := p.StartDate.Time(), p.EndDate.Time()
		row.name = p.Name
		row.price = p.Price.Decimal().String()
		row.imageURL = p.ImageURL
		row.planType = p.PlanType
		row.startDate = &start
		row.endDate = &end
	}
	return row
}

func (r *PostgresSubscriptionRepository) Create(ctx context.Context, s *domain.Subscription) error {
	row := toPgRow(s)
	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err := execer.Exec(ctx, `
		INSERT INTO subscriptions (
			id, account_id, status, name, price, image_url, plan_type,
			start_date, end_date, auto_renewal, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		s.ID(), s.AccountID(),
		row.status, row.name, row.price, row.imageURL, row.planType,
		row.startDate, row.endDate, s.AutoRenewal(),
		s.CreatedAt(), s.UpdatedAt(),
	)
	return err
}

func (r *PostgresSubscriptionRepository) FindByAccount(ctx context.Context, accountID uuid.UUID) (*domain.Subscription, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	var (
		id, owner            uuid.UUID
		row                  pgRow
		autoRenewal          bool
		createdAt, updatedAt time.Time
	)
	err := execer.QueryRow(ctx, `
		SELECT id, account_id, status, name, price::text, image_url, plan_type,
		       start_date, end_date, auto_renewal, created_at, updated_at
		FROM subscriptions WHERE account_id = $1
	`, accountID).Scan(
		&id, &owner, &row.status, &row.name, &row.price, &row.imageURL, &row.planType,
		&row.startDate, &row.endDate, &autoRenewal, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var period *domain.Period
	if domain.Status(row.status) == domain.StatusActive && row.startDate != nil && row.endDate != nil {
		price, err := sharedDomain.ParseMoney(row.price)
		if err != nil {
			return nil, err
		}
		period = &domain.Period{
			Name:      row.name,
			Price:     price,
			ImageURL:  row.imageURL,
			PlanType:  row.planType,
			StartDate: sharedDomain.DateOf(*row.startDate),
			EndDate:   sharedDomain.DateOf(*row.endDate),
		}
	}
	return domain.RehydrateSubscription(id, owner, period, autoRenewal, createdAt, updatedAt), nil
}

func (r *PostgresSubscriptionRepository) Update(ctx context.Context, s *domain.Subscription) error {
	row := toPgRow(s)
	execer := sharedPersistence.Executor(ctx, r.pool)
	tag, err := execer.Exec(ctx, `
		UPDATE subscriptions SET
			status = $2, name = $3, price = $4, image_url = $5, plan_type = $6,
			start_date = $7, end_date = $8, auto_renewal = $9, updated_at = $10
		WHERE id = $1
	`,
		s.ID(),
		row.status, row.name, row.price, row.imageURL, row.planType,
		row.startDate, row.endDate, s.AutoRenewal(), s.UpdatedAt(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}
