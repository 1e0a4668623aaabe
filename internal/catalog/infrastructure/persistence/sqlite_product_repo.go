package persistence

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/felixgeelhaar/gymstore/internal/catalog/domain"
	sharedDomain "github.com/felixgeelhaar/gymstore/internal/shared/domain"
	sharedPersistence "github.com/felixgeelhaar/gymstore/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteProductRepository implements domain.ProductRepository using SQLite.
type SQLiteProductRepository struct {
	db *sql.DB
}

// NewSQLiteProductRepository creates a new SQLite product repository.
func NewSQLiteProductRepository(db *sql.DB) *SQLiteProductRepository {
	return &SQLiteProductRepository{db: db}
}

const sqliteProductColumns = `id, name, description, stock, price, category_id, created_at, updated_at`

// Create inserts a product and its images.
func (r *SQLiteProductRepository) Create(ctx context.Context, product *domain.Product) error {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO products (`+sqliteProductColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		product.ID().String(),
		product.Name(),
		product.Description(),
		product.Stock(),
		moneyParam(product.Price()),
		nullableUUID(product.CategoryID()),
		sharedPersistence.SQLiteTime(product.CreatedAt()),
		sharedPersistence.SQLiteTime(product.UpdatedAt()),
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

// FindByID loads a product with its images.
func (r *SQLiteProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)
	row := q.QueryRowContext(ctx, `SELECT `+sqliteProductColumns+` FROM products WHERE id = ?`, id.String())

	fields, err := scanSQLiteProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	images, err := r.loadImages(ctx, id)
	if err != nil {
		return nil, err
	}
	return fields.toDomain(images), nil
}

// List returns products ordered by name.
func (r *SQLiteProductRepository) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	var (
		where []string
		args  []any
	)
	if filter.CategoryID != nil {
		where = append(where, "category_id = ?")
		args = append(args, filter.CategoryID.String())
	}
	if filter.InStock {
		where = append(where, "stock > 0")
	}

	query := `SELECT ` + sqliteProductColumns + ` FROM products`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY name, id`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	q := sharedPersistence.SQLiteExecutor(ctx, r.db)
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var all []productFields
	for rows.Next() {
		fields, err := scanSQLiteProduct(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		all = append(all, fields)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	products := make([]*domain.Product, 0, len(all))
	for _, fields := range all {
		images, err := r.loadImages(ctx, fields.id)
		if err != nil {
			return nil, err
		}
		products = append(products, fields.toDomain(images))
	}
	return products, nil
}

// DecrementStock subtracts quantity when enough stock is left.
func (r *SQLiteProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)
	result, err := q.ExecContext(ctx, `
		UPDATE products SET stock = stock - ?, updated_at = ?
		WHERE id = ? AND stock >= ?
	`, quantity, sharedPersistence.SQLiteTime(timeNow()), id.String(), quantity)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// IncrementStock adds quantity to the stock.
func (r *SQLiteProductRepository) IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)
	result, err := q.ExecContext(ctx, `
		UPDATE products SET stock = stock + ?, updated_at = ? WHERE id = ?
	`, quantity, sharedPersistence.SQLiteTime(timeNow()), id.String())
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// AddImage inserts a product image.
func (r *SQLiteProductRepository) AddImage(ctx context.Context, image *domain.Image) error {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO product_images (id, product_id, url, position, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		image.ID().String(),
		image.ProductID().String(),
		image.URL(),
		image.Position(),
		sharedPersistence.SQLiteTime(image.CreatedAt()),
	)
	return err
}

func (r *SQLiteProductRepository) loadImages(ctx context.Context, productID uuid.UUID) ([]*domain.Image, error) {
	q := sharedPersistence.SQLiteExecutor(ctx, r.db)
	rows, err := q.QueryContext(ctx, `
		SELECT id, product_id, url, position, created_at
		FROM product_images WHERE product_id = ? ORDER BY position
	`, productID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []*domain.Image
	for rows.Next() {
		var (
			id, pid, url, createdAt string
			position                int
		)
		if err := rows.Scan(&id, &pid, &url, &position, &createdAt); err != nil {
			return nil, err
		}
		imageID, err := uuid.Parse(id)
		if err != nil {
			return nil, err
		}
		owner, err := uuid.Parse(pid)
		if err != nil {
			return nil, err
		}
		created, err := sharedPersistence.ParseSQLiteTime(createdAt)
		if err != nil {
			return nil, err
		}
		images = append(images, domain.RehydrateImage(imageID, owner, url, position, created))
	}
	return images, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteProduct(row rowScanner) (productFields, error) {
	var (
		f                    productFields
		id, price            string
		categoryID           sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&id, &f.name, &f.description, &f.stock, &price, &categoryID, &createdAt, &updatedAt); err != nil {
		return f, err
	}

	var err error
	if f.id, err = uuid.Parse(id); err != nil {
		return f, err
	}
	if f.price, err = sharedDomain.ParseMoney(price); err != nil {
		return f, err
	}
	if f.categoryID, err = parseNullableUUID(categoryID); err != nil {
		return f, err
	}
	if f.createdAt, err = sharedPersistence.ParseSQLiteTime(createdAt); err != nil {
		return f, err
	}
	if f.updatedAt, err = sharedPersistence.ParseSQLiteTime(updatedAt); err != nil {
		return f, err
	}
	return f, nil
}
