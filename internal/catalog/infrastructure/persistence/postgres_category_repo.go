package persistence

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	sharedPersistence "github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCategoryRepository implements domain.CategoryRepository using PostgreSQL.
type PostgresCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCategoryRepository creates a new PostgreSQL category repository.
func NewPostgresCategoryRepository(pool *pgxpool.Pool) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{pool: pool}
}

func (r *PostgresCategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	_, err := sharedPersistence.Executor(ctx, r.pool).Exec(ctx, `
		INSERT INTO categories (id, name, slug, description, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID(), c.Name(), c.Slug(), c.Description(), c.ImageURL(), c.CreatedAt(), c.UpdatedAt())
	return err
}

func (r *PostgresCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	row := sharedPersistence.Executor(ctx, r.pool).QueryRow(ctx, `
		SELECT id, name, slug, description, image_url, created_at, updated_at
		FROM categories WHERE id = $1
	`, id)
	c, err := scanPostgresCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *PostgresCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	rows, err := sharedPersistence.Executor(ctx, r.pool).Query(ctx, `
		SELECT id, name, slug, description, image_url, created_at, updated_at
		FROM categories ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		c, err := scanPostgresCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func scanPostgresCategory(row pgx.Row) (*domain.Category, error) {
	var c categoryRow
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return domain.RehydrateCategory(c.ID, c.Name, c.Slug, c.Description, c.ImageURL, c.CreatedAt, c.UpdatedAt), nil
}
