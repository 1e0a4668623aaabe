package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/gymstore/internal/accounts/domain"
	sharedPersistence "github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresUserRepository implements domain.UserRepository using PostgreSQL.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository creates a new PostgreSQL user repository.
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err := execer.Exec(ctx, `
		INSERT INTO users (id, email, full_name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID(), user.Email().String(), user.FullName().String(), string(user.Role()), user.CreatedAt(), user.UpdatedAt())
	return err
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	return scanPostgresUser(execer.QueryRow(ctx, `
		SELECT id, email, full_name, role, created_at, updated_at FROM users WHERE id = $1
	`, id))
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	return scanPostgresUser(execer.QueryRow(ctx, `
		SELECT id, email, full_name, role, created_at, updated_at FROM users WHERE email = $1
	`, email.String()))
}

func scanPostgresUser(row pgx.Row) (*domain.User, error) {
	var (
		id                    uuid.UUID
		email, fullName, role string
		createdAt, updatedAt  time.Time
	)
	if err := row.Scan(&id, &email, &fullName, &role, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return domain.RehydrateUser(id, email, fullName, domain.Role(role), createdAt, updatedAt), nil
}
