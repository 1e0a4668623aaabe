package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	sharedPersistence "github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteCategoryRepository implements domain.CategoryRepository using SQLite.
type SQLiteCategoryRepository struct {
	db *sql.DB
}

// NewSQLiteCategoryRepository creates a new SQLite category repository.
func NewSQLiteCategoryRepository(db *sql.DB) *SQLiteCategoryRepository {
	return &SQLiteCategoryRepository{db: db}
}

func (r *SQLiteCategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	_, err := sharedPersistence.SQLiteExecutor(ctx, r.db).ExecContext(ctx, `
		INSERT INTO categories (id, name, slug, description, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		c.ID().String(), c.Name(), c.Slug(), c.Description(), c.ImageURL(),
		sharedPersistence.SQLiteTime(c.CreatedAt()),
		sharedPersistence.SQLiteTime(c.UpdatedAt()),
	)
	return err
}

func (r *SQLiteCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	row := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryRowContext(ctx, `
		SELECT id, name, slug, description, image_url, created_at, updated_at
		FROM categories WHERE id = ?
	`, id.String())
	c, err := scanSQLiteCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *SQLiteCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	rows, err := sharedPersistence.SQLiteExecutor(ctx, r.db).QueryContext(ctx, `
		SELECT id, name, slug, description, image_url, created_at, updated_at
		FROM categories ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		c, err := scanSQLiteCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func scanSQLiteCategory(row rowScanner) (*domain.Category, error) {
	var id, name, slug, description, imageURL, createdAt, updatedAt string
	if err := row.Scan(&id, &name, &slug, &description, &imageURL, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	categoryID, err := uuid.Parse(id)
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
	return domain.RehydrateCategory(categoryID, name, slug, description, imageURL, created, updated), nil
}
