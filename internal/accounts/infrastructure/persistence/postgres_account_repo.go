package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/gymstore/internal/accounts/domain"
	loyaltyDomain "github.com/felixgeelhaar/gymstore/internal/loyalty/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	sharedPersistence "github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresAccountRepository implements domain.AccountRepository using PostgreSQL.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAccountRepository creates a new PostgreSQL account repository.
func NewPostgresAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

const pgAccountColumns = `id, user_id, credit_balance::text, rank, version, created_at, updated_at`

func (r *PostgresAccountRepository) Create(ctx context.Context, a *domain.Account) error {
	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err := execer.Exec(ctx, `
		INSERT INTO accounts (id, user_id, credit_balance, rank, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, a.ID(), a.UserID(), a.CreditBalance().Decimal().String(), a.Tier().String(), a.Version(), a.CreatedAt(), a.UpdatedAt())
	return err
}

func (r *PostgresAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	return scanPostgresAccount(execer.QueryRow(ctx, `SELECT `+pgAccountColumns+` FROM accounts WHERE id = $1`, id))
}

func (r *PostgresAccountRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	return scanPostgresAccount(execer.QueryRow(ctx, `SELECT `+pgAccountColumns+` FROM accounts WHERE user_id = $1`, userID))
}

func (r *PostgresAccountRepository) UpdateBalance(ctx context.Context, a *domain.Account) error {
	execer := sharedPersistence.Executor(ctx, r.pool)
	tag, err := execer.Exec(ctx, `
		UPDATE accounts SET credit_balance = $1, version = version + 1, updated_at = $2
		WHERE id = $3 AND version = $4
	`, a.CreditBalance().Decimal().String(), a.UpdatedAt(), a.ID(), a.Version())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return sharedDomain.ErrConcurrentModification
	}
	a.SetVersion(a.Version() + 1)
	return nil
}

func scanPostgresAccount(row pgx.Row) (*domain.Account, error) {
	var (
		id, userID           uuid.UUID
		balance, rank        string
		version              int
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &userID, &balance, &rank, &version, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	credit, err := sharedDomain.ParseMoney(balance)
	if err != nil {
		return nil, err
	}
	tier, err := loyaltyDomain.ParseTier(rank)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateAccount(id, userID, credit, tier, version, createdAt, updatedAt), nil
}
