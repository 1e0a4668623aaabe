package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	sharedPersistence "github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresProductRepository implements domain.ProductRepository using PostgreSQL.
type PostgresProductRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresProductRepository creates a new PostgreSQL product repository.
func NewPostgresProductRepository(pool *pgxpool.Pool) *PostgresProductRepository {
	return &PostgresProductRepository{pool: pool}
}

const pgProductColumns = `id, name, description, stock, price::text, category_id, created_at, updated_at`

func (r *PostgresProductRepository) Create(ctx context.Context, product *domain.Product) error {
	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err := execer.Exec(ctx, `
		INSERT INTO products (id, name, description, stock, price, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		product.ID(),
		product.Name(),
		product.Description(),
		product.Stock(),
		moneyParam(product.Price()),
		product.CategoryID(),
		product.CreatedAt(),
		product.UpdatedAt(),
	)
	if err != nil {
		return err
	}
	for _, img := range product.Images() {
		if err := r.AddImage(ctx, img); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	fields, err := scanPostgresProduct(execer.QueryRow(ctx,
		`SELECT `+pgProductColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	images, err := r.loadImages(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	return fields.toDomain(images[id]), nil
}

func (r *PostgresProductRepository) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	var (
		where []string
		args  []any
	)
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if filter.InStock {
		where = append(where, "stock > 0")
	}

	query := `SELECT ` + pgProductColumns + ` FROM products`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY name, id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var (
		all []productFields
		ids []uuid.UUID
	)
	for rows.Next() {
		fields, err := scanPostgresProduct(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		all = append(all, fields)
		ids = append(ids, fields.id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	images, err := r.loadImages(ctx, ids)
	if err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(all))
	for _, fields := range all {
		products = append(products, fields.toDomain(images[fields.id]))
	}
	return products, nil
}

func (r *PostgresProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	tag, err := sharedPersistence.Executor(ctx, r.pool).Exec(ctx, `
		UPDATE products SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
	`, id, quantity)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PostgresProductRepository) IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	tag, err := sharedPersistence.Executor(ctx, r.pool).Exec(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = NOW() WHERE id = $1
	`, id, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *PostgresProductRepository) AddImage(ctx context.Context, image *domain.Image) error {
	_, err := sharedPersistence.Executor(ctx, r.pool).Exec(ctx, `
		INSERT INTO product_images (id, product_id, url, position, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, image.ID(), image.ProductID(), image.URL(), image.Position(), image.CreatedAt())
	return err
}

func (r *PostgresProductRepository) loadImages(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]*domain.Image, error) {
	images := make(map[uuid.UUID][]*domain.Image, len(productIDs))
	if len(productIDs) == 0 {
		return images, nil
	}

	rows, err := sharedPersistence.Executor(ctx, r.pool).Query(ctx, `
		SELECT id, product_id, url, position, created_at
		FROM product_images WHERE product_id = ANY($1) ORDER BY product_id, position
	`, productIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var img imageRow
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL, &img.Position, &img.CreatedAt); err != nil {
			return nil, err
		}
		images[img.ProductID] = append(images[img.ProductID],
			domain.RehydrateImage(img.ID, img.ProductID, img.URL, img.Position, img.CreatedAt))
	}
	return images, rows.Err()
}

func scanPostgresProduct(row pgx.Row) (productFields, error) {
	var (
		f     productFields
		price string
	)
	if err := row.Scan(&f.id, &f.name, &f.description, &f.stock, &price, &f.categoryID, &f.createdAt, &f.updatedAt); err != nil {
		return f, err
	}
	var err error
	f.price, err = sharedDomain.ParseMoney(price)
	return f, err
}
