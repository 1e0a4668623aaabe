package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/felixgeelhaar/gymstore/internal/membership/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	sharedPersistence "github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteSubscriptionRepository implements domain.SubscriptionRepository using SQLite.
type SQLiteSubscriptionRepository struct {
	db *sql.DB
}

// NewSQLiteSubscriptionRepository creates a new SQLite subscription repository.
func NewSQLiteSubscriptionRepository(db *sql.DB) *SQLiteSubscriptionRepository {
	return &SQLiteSubscriptionRepository{db: db}
}

// sqliteRow flattens the subscription state into its columns.
type sqliteRow struct {
	status                          string
	name, price, imageURL, planType string
	startDate, endDate              sql.NullString
}

func toSQLiteRow(s *domain.Subscription) sqliteRow {
	row := sqliteRow{status: string(s.Status()), price: "0"}
	if p, ok := s.Period(); ok {
		row.name = p.Name
		row.price = p.Price.Decimal().String()
		row.imageURL = p.ImageURL
		row.planType = p.PlanType
		row.startDate = sql.NullString{String: p.StartDate.String(), Valid: true}
		row.endDate = sql.NullString{String: p.EndDate.String(), Valid: true}
	}
	return row
}

func (r *SQLiteSubscriptionRepository) Create(ctx context.Context, s *domain.Subscription) error {
	row := toSQLiteRow(s)
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO subscriptions (
			id, account_id, status, name, price, image_url, plan_type,
			start_date, end_date, auto_renewal, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		s.ID().String(),
		s.AccountID().String(),
		row.status, row.name, row.price, row.imageURL, row.planType,
		row.startDate, row.endDate,
		s.AutoRenewal(),
		sharedPersistence.SQLiteTime(s.CreatedAt()),
		sharedPersistence.SQLiteTime(s.UpdatedAt()),
	)
	return err
}

func (r *SQLiteSubscriptionRepository) FindByAccount(ctx context.Context, accountID uuid.UUID) (*domain.Subscription, error) {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)
	var (
		id, account, createdAt, updatedAt string
		row                               sqliteRow
		autoRenewal                       bool
	)
	err := q.QueryRowContext(ctx, `
		SELECT id, account_id, status, name, price, image_url, plan_type,
		       start_date, end_date, auto_renewal, created_at, updated_at
		FROM subscriptions WHERE account_id = ?
	`, accountID.String()).Scan(
		&id, &account, &row.status, &row.name, &row.price, &row.imageURL, &row.planType,
		&row.startDate, &row.endDate, &autoRenewal, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	subID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	owner, err := uuid.Parse(account)
	if err != nil {
		return nil, err
	}
	period, err := row.period()
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
	return domain.RehydrateSubscription(subID, owner, period, autoRenewal, created, updated), nil
}

func (r *SQLiteSubscriptionRepository) Update(ctx context.Context, s *domain.Subscription) error {
	row := toSQLiteRow(s)
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)
	result, err := q.ExecContext(ctx, `
		UPDATE subscriptions SET
			status = ?, name = ?, price = ?, image_url = ?, plan_type = ?,
			start_date = ?, end_date = ?, auto_renewal = ?, updated_at = ?
		WHERE id = ?
	`,
		row.status, row.name, row.price, row.imageURL, row.planType,
		row.startDate, row.endDate, s.AutoRenewal(),
		sharedPersistence.SQLiteTime(s.UpdatedAt()),
		s.ID().String(),
	)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}

func (row sqliteRow) period() (*domain.Period, error) {
	if domain.Status(row.status) != domain.StatusActive {
		return nil, nil
	}
	price, err := sharedDomain.ParseMoney(row.price)
	if err != nil {
		return nil, err
	}
	start, err := sharedDomain.ParseDate(row.startDate.String)
	if err != nil {
		return nil, err
	}
	end, err := sharedDomain.ParseDate(row.endDate.String)
	if err != nil {
		return nil, err
	}
	return &domain.Period{
		Name:      row.name,
		Price:     price,
		ImageURL:  row.imageURL,
		PlanType:  row.planType,
		StartDate: start,
		EndDate:   end,
	}, nil
}
