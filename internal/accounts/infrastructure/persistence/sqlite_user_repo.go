package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/felixgeelhaar/gymstore/internal/accounts/domain"
	sharedPersistence "github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteUserRepository handles persistence for users using SQLite.
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewSQLiteUserRepository creates a new SQLiteUserRepository.
func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

const sqliteUserColumns = `id, email, full_name, role, created_at, updated_at`

// Create inserts a user.
func (r *SQLiteUserRepository) Create(ctx context.Context, user *domain.User) error {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO users (`+sqliteUserColumns+`) VALUES (?, ?, ?, ?, ?, ?)
	`,
		user.ID().String(),
		user.Email().String(),
		user.FullName().String(),
		string(user.Role()),
		sharedPersistence.SQLiteTime(user.CreatedAt()),
		sharedPersistence.SQLiteTime(user.UpdatedAt()),
	)
	return err
}

// FindByID retrieves a user by their ID.
func (r *SQLiteUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)
	return scanSQLiteUser(q.QueryRowContext(ctx, `SELECT `+sqliteUserColumns+` FROM users WHERE id = ?`, id.String()))
}

// FindByEmail retrieves a user by their email.
func (r *SQLiteUserRepository) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)
	return scanSQLiteUser(q.QueryRowContext(ctx, `SELECT `+sqliteUserColumns+` FROM users WHERE email = ?`, email.String()))
}

func scanSQLiteUser(row *sql.Row) (*domain.User, error) {
	var id, email, fullName, role, createdAt, updatedAt string
	if err := row.Scan(&id, &email, &fullName, &role, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	userID, err := uuid.Parse(id)
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
	return domain.RehydrateUser(userID, email, fullName, domain.Role(role), created, updated), nil
}
