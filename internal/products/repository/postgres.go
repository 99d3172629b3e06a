package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"inventory-tracker/internal/products"

	"github.com/lib/pq"
)

const (
	healthCheckTimeout = 2 * time.Second

	uniqueViolation     pq.ErrorCode = "23505"
	foreignKeyViolation pq.ErrorCode = "23503"
)

const productColumns = `
	p.id, p.name, p.description, p.quantity, p.product_id,
	p.low_stock_threshold, p.category_id, c.name, p.price, p.created_at
`

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (products.Product, error) {
	var p products.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Quantity, &p.ProductID,
		&p.LowStockThreshold, &p.CategoryID, &p.CategoryName, &p.Price, &p.CreatedAt,
	)
	return p, err
}

func isViolation(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}

func (r *PostgresRepository) Create(ctx context.Context, in products.NewProduct) (products.Product, error) {
	query := `
		WITH inserted AS (
			INSERT INTO products (name, description, quantity, price, product_id, low_stock_threshold, category_id)
			VALUES ($1, $2, $3, 0, $4, $5, $6)
			RETURNING *
		)
		SELECT ` + productColumns + `
		FROM inserted p
		LEFT JOIN categories c ON c.id = p.category_id
	`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query,
		in.Name, in.Description, in.Quantity, in.ProductID, in.LowStockThreshold, in.CategoryID,
	))
	if err != nil {
		if isViolation(err, foreignKeyViolation) {
			return products.Product{}, fmt.Errorf("insert product: %w", products.ErrCategoryMissing)
		}
		return products.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

// Update writes every editable field of product id and returns the row joined
// with its category name. ErrNotFound means no row had that id.
func (r *PostgresRepository) Update(ctx context.Context, id int64, in products.ProductUpdate) (products.Product, error) {
	query := `
		WITH updated AS (
			UPDATE products
			SET name = $2, description = $3, quantity = $4, product_id = $5,
				low_stock_threshold = $6, category_id = $7
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + productColumns + `
		FROM updated p
		LEFT JOIN categories c ON c.id = p.category_id
	`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query,
		id, in.Name, in.Description, in.Quantity, in.ProductID, in.LowStockThreshold, in.CategoryID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return products.Product{}, products.ErrNotFound
		}
		if isViolation(err, foreignKeyViolation) {
			return products.Product{}, fmt.Errorf("update product %d: %w", id, products.ErrCategoryMissing)
		}
		return products.Product{}, fmt.Errorf("update product %d: %w", id, err)
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return products.ErrNotFound
	}

	return nil
}

// FindByName looks a product up by its trimmed name, case-sensitively.
func (r *PostgresRepository) FindByName(ctx context.Context, name string) (products.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE btrim(p.name) = $1
		LIMIT 1
	`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return products.Product{}, products.ErrNotFound
		}
		return products.Product{}, fmt.Errorf("find product by name: %w", err)
	}
	return p, nil
}

// ListAll returns every product, newest first. Filtering and paging happen in
// memory.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]products.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY p.created_at DESC, p.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	list := make([]products.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return list, nil
}

// CreateCategory inserts a category. ErrCategoryExists reports the unique
// constraint on name.
func (r *PostgresRepository) CreateCategory(ctx context.Context, name string) (products.Category, error) {
	query := `INSERT INTO categories (name) VALUES ($1) RETURNING id, name`

	var c products.Category
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&c.ID, &c.Name); err != nil {
		if isViolation(err, uniqueViolation) {
			return products.Category{}, products.ErrCategoryExists
		}
		return products.Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) FindCategoryByName(ctx context.Context, name string) (products.Category, error) {
	query := `SELECT id, name FROM categories WHERE name = $1`

	var c products.Category
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&c.ID, &c.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return products.Category{}, products.ErrCategoryNotFound
		}
		return products.Category{}, fmt.Errorf("find category: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]products.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	list := make([]products.Category, 0)
	for rows.Next() {
		var c products.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return list, nil
}

func (r *PostgresRepository) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()
	return r.db.PingContext(ctx)
}
