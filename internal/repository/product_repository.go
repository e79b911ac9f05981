package repository

import (
	"context"
	"fmt"
	"time"

	"shop-admin/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// GetAll retrieves all products joined with their categories.
func (r *productRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	query := `
		SELECT p.id, p.name, p.description, p.price, p.category_id, p.image_path,
		       p.created_at, p.updated_at, c.id, c.name
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY p.name, p.id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID, joined with its category.
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `
		SELECT p.id, p.name, p.description, p.price, p.category_id, p.image_path,
		       p.created_at, p.updated_at, c.id, c.name
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

// BeginTx starts a new database transaction.
func (r *productRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Create inserts a new product within the provided transaction and assigns
// its identifier.
func (r *productRepository) Create(ctx context.Context, tx pgx.Tx, product *model.Product) error {
	query := `
		INSERT INTO products (name, description, price, category_id, image_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id
	`

	now := time.Now().UTC()
	err := tx.QueryRow(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.CategoryID,
		product.ImagePath,
		now,
	).Scan(&product.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("name", product.Name).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	product.CreatedAt = now
	product.UpdatedAt = now

	r.logger.Debug().
		Int64("product_id", product.ID).
		Msg("product created successfully")

	return nil
}

// Update updates an existing product within the provided transaction.
func (r *productRepository) Update(ctx context.Context, tx pgx.Tx, product *model.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, category_id = $5,
		    image_path = $6, updated_at = $7
		WHERE id = $1
	`

	now := time.Now().UTC()
	tag, err := tx.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.CategoryID,
		product.ImagePath,
		now,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", product.ID).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Warn().Int64("product_id", product.ID).Msg("update matched no product")
		return model.ErrProductNotFound
	}

	product.UpdatedAt = now

	r.logger.Debug().
		Int64("product_id", product.ID).
		Msg("product updated successfully")

	return nil
}

// Delete removes a product by ID within the provided transaction.
func (r *productRepository) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Warn().Int64("product_id", id).Msg("delete matched no product")
		return model.ErrProductNotFound
	}

	r.logger.Debug().
		Int64("product_id", id).
		Msg("product deleted successfully")

	return nil
}

// scanProduct scans one joined product row. The category columns come from
// a LEFT JOIN and may be NULL.
func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	var categoryID *int64
	var categoryName *string

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.CategoryID,
		&p.ImagePath,
		&p.CreatedAt,
		&p.UpdatedAt,
		&categoryID,
		&categoryName,
	)
	if err != nil {
		return nil, err
	}

	if categoryID != nil && categoryName != nil {
		p.Category = &model.Category{ID: *categoryID, Name: *categoryName}
	}

	return &p, nil
}
