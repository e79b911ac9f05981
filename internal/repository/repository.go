package repository

import (
	"context"

	"shop-admin/internal/model"

	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access
// operations. Record mutations run inside a transaction supplied by the
// caller; committing the transaction is the single save point for one
// logical operation.
type ProductRepository interface {
	// GetAll retrieves all products joined with their categories.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by its ID, joined with its
	// category. Returns (nil, nil) when no such product exists.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a new product within the provided transaction and
	// assigns its identifier.
	Create(ctx context.Context, tx pgx.Tx, product *model.Product) error

	// Update updates an existing product within the provided transaction.
	Update(ctx context.Context, tx pgx.Tx, product *model.Product) error

	// Delete removes a product by ID within the provided transaction.
	Delete(ctx context.Context, tx pgx.Tx, id int64) error
}

// CategoryRepository defines read-only access to categories.
type CategoryRepository interface {
	// GetAll retrieves all categories ordered by name.
	GetAll(ctx context.Context) ([]model.Category, error)

	// Exists reports whether a category with the given ID exists.
	Exists(ctx context.Context, id int64) (bool, error)
}
