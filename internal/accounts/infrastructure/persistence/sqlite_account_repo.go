package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/felixgeelhaar/gymstore/internal/accounts/domain"
	loyaltyDomain "github.com/felixgeelhaar/gymstore/internal/loyalty/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	sharedPersistence "github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteAccountRepository implements domain.AccountRepository using SQLite.
type SQLiteAccountRepository struct {
	db *sql.DB
}

// NewSQLiteAccountRepository creates a new SQLite account repository.
func NewSQLiteAccountRepository(db *sql.DB) *SQLiteAccountRepository {
	return &SQLiteAccountRepository{db: db}
}

const sqliteAccountColumns = `id, user_id, credit_balance, rank, version, created_at, updated_at`

func (r *SQLiteAccountRepository) Create(ctx context.Context, a *domain.Account) error {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO accounts (`+sqliteAccountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		a.ID().String(),
		a.UserID().String(),
		a.CreditBalance().Decimal().String(),
		a.Tier().String(),
		a.Version(),
		sharedPersistence.SQLiteTime(a.CreatedAt()),
		sharedPersistence.SQLiteTime(a.UpdatedAt()),
	)
	return err
}

func (r *SQLiteAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)
	return scanSQLiteAccount(q.QueryRowContext(ctx, `SELECT `+sqliteAccountColumns+` FROM accounts WHERE id = ?`, id.String()))
}

func (r *SQLiteAccountRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)
	return scanSQLiteAccount(q.QueryRowContext(ctx, `SELECT `+sqliteAccountColumns+` FROM accounts WHERE user_id = ?`, userID.String()))
}

func (r *SQLiteAccountRepository) UpdateBalance(ctx context.Context, a *domain.Account) error {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)
	result, err := q.ExecContext(ctx, `
		UPDATE accounts SET credit_balance = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`,
		a.CreditBalance().Decimal().String(),
		sharedPersistence.SQLiteTime(a.UpdatedAt()),
		a.ID().String(),
		a.Version(),
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sharedDomain.ErrConcurrentModification
	}
	a.SetVersion(a.Version() + 1)
	return nil
}

func scanSQLiteAccount(row *sql.Row) (*domain.Account, error) {
	var (
		id, userID, balance, rank string
		version                   int
		createdAt, updatedAt      string
	)
	if err := row.Scan(&id, &userID, &balance, &rank, &version, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	accountID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	owner, err := uuid.Parse(userID)
	if err != nil {
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
	created, err := sharedPersistence.ParseSQLiteTime(createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := sharedPersistence.ParseSQLiteTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateAccount(accountID, owner, credit, tier, version, created, updated), nil
}
