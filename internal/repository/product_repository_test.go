package repository

import (
	"context"
	"testing"
	"time"

	"shop-admin/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	// Get connection string
	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Create connection pool
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	// Create schema
	createSchema(t, pool)

	// Cleanup function
	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// createSchema creates the necessary database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS categories (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		);
		CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
			category_id BIGINT NOT NULL REFERENCES categories(id),
			image_path TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_products_category_id ON products(category_id);
		CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);
	`

	_, err := pool.Exec(ctx, schema)
	require.NoError(t, err)
}

// seedCategories inserts test categories and returns their IDs keyed by name.
func seedCategories(t *testing.T, pool *pgxpool.Pool, names []string) map[string]int64 {
	ctx := context.Background()
	ids := make(map[string]int64, len(names))

	for _, name := range names {
		var id int64
		err := pool.QueryRow(ctx,
			"INSERT INTO categories (name) VALUES ($1) RETURNING id", name,
		).Scan(&id)
		require.NoError(t, err)
		ids[name] = id
	}

	return ids
}

// seedProduct inserts one product row and returns its generated ID.
func seedProduct(t *testing.T, pool *pgxpool.Pool, p model.Product) int64 {
	ctx := context.Background()

	var id int64
	err := pool.QueryRow(ctx, `
		INSERT INTO products (name, description, price, category_id, image_path)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, p.Name, p.Description, p.Price, p.CategoryID, p.ImagePath).Scan(&id)
	require.NoError(t, err)

	return id
}

func TestProductRepository_GetAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	repo := NewProductRepository(pool, logger)

	cats := seedCategories(t, pool, []string{"Electronics", "Books"})

	imagePath := "/images/product/cam.jpg"
	seedProduct(t, pool, model.Product{Name: "Camera", Price: 299.99, CategoryID: cats["Electronics"], ImagePath: &imagePath})
	seedProduct(t, pool, model.Product{Name: "Atlas", Price: 35.00, CategoryID: cats["Books"]})
	seedProduct(t, pool, model.Product{Name: "Zoom Lens", Price: 120.50, CategoryID: cats["Electronics"]})

	ctx := context.Background()
	products, err := repo.GetAll(ctx)

	require.NoError(t, err)
	require.Len(t, products, 3)

	// Ordered by name
	assert.Equal(t, "Atlas", products[0].Name)
	assert.Equal(t, "Camera", products[1].Name)
	assert.Equal(t, "Zoom Lens", products[2].Name)

	// Category join is populated
	require.NotNil(t, products[1].Category)
	assert.Equal(t, "Electronics", products[1].Category.Name)

	// Image path round-trips, including NULL
	require.NotNil(t, products[1].ImagePath)
	assert.Equal(t, imagePath, *products[1].ImagePath)
	assert.Nil(t, products[0].ImagePath)
}

func TestProductRepository_GetAll_Empty(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())

	products, err := repo.GetAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestProductRepository_GetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	repo := NewProductRepository(pool, logger)

	cats := seedCategories(t, pool, []string{"Electronics"})
	id := seedProduct(t, pool, model.Product{
		Name:        "Keyboard",
		Description: "Mechanical, tenkeyless",
		Price:       89.99,
		CategoryID:  cats["Electronics"],
	})

	tests := []struct {
		name      string
		id        int64
		expectNil bool
	}{
		{
			name:      "Product exists",
			id:        id,
			expectNil: false,
		},
		{
			name:      "Product does not exist",
			id:        id + 1000,
			expectNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()

			product, err := repo.GetByID(ctx, tt.id)

			require.NoError(t, err)

			if tt.expectNil {
				assert.Nil(t, product)
			} else {
				require.NotNil(t, product)
				assert.Equal(t, id, product.ID)
				assert.Equal(t, "Keyboard", product.Name)
				assert.Equal(t, "Mechanical, tenkeyless", product.Description)
				assert.Equal(t, 89.99, product.Price)
				require.NotNil(t, product.Category)
				assert.Equal(t, "Electronics", product.Category.Name)
				assert.Nil(t, product.ImagePath)
			}
		})
	}
}

func TestProductRepository_Create(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	repo := NewProductRepository(pool, logger)

	cats := seedCategories(t, pool, []string{"Books"})

	ctx := context.Background()
	imagePath := "/images/product/cover.png"
	product := &model.Product{
		Name:        "Field Guide",
		Description: "Pocket edition",
		Price:       19.95,
		CategoryID:  cats["Books"],
		ImagePath:   &imagePath,
	}

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	err = repo.Create(ctx, tx, product)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	assert.Greater(t, product.ID, int64(0))
	assert.False(t, product.CreatedAt.IsZero())
	assert.Equal(t, product.CreatedAt, product.UpdatedAt)

	stored, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Field Guide", stored.Name)
	require.NotNil(t, stored.ImagePath)
	assert.Equal(t, imagePath, *stored.ImagePath)
}

func TestProductRepository_Create_RollbackDiscardsRow(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	cats := seedCategories(t, pool, []string{"Books"})

	ctx := context.Background()
	product := &model.Product{Name: "Draft", Price: 5.00, CategoryID: cats["Books"]}

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, tx, product))
	require.NoError(t, tx.Rollback(ctx))

	stored, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestProductRepository_Update(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	repo := NewProductRepository(pool, logger)

	cats := seedCategories(t, pool, []string{"Electronics", "Books"})
	id := seedProduct(t, pool, model.Product{Name: "Old Name", Price: 10.00, CategoryID: cats["Electronics"]})

	ctx := context.Background()
	imagePath := "/images/product/new.jpg"
	product := &model.Product{
		ID:          id,
		Name:        "New Name",
		Description: "Updated",
		Price:       12.50,
		CategoryID:  cats["Books"],
		ImagePath:   &imagePath,
	}

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	err = repo.Update(ctx, tx, product)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	stored, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "New Name", stored.Name)
	assert.Equal(t, "Updated", stored.Description)
	assert.Equal(t, 12.50, stored.Price)
	assert.Equal(t, cats["Books"], stored.CategoryID)
	require.NotNil(t, stored.ImagePath)
	assert.Equal(t, imagePath, *stored.ImagePath)
}

func TestProductRepository_Update_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	cats := seedCategories(t, pool, []string{"Books"})

	ctx := context.Background()
	product := &model.Product{ID: 9999, Name: "Ghost", Price: 1.00, CategoryID: cats["Books"]}

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	err = repo.Update(ctx, tx, product)

	require.Error(t, err)
	assert.Equal(t, model.ErrProductNotFound, err)
}

func TestProductRepository_Delete(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	repo := NewProductRepository(pool, logger)

	cats := seedCategories(t, pool, []string{"Electronics"})
	id := seedProduct(t, pool, model.Product{Name: "Doomed", Price: 9.99, CategoryID: cats["Electronics"]})

	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	err = repo.Delete(ctx, tx, id)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	stored, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestProductRepository_Delete_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())

	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	err = repo.Delete(ctx, tx, 9999)

	require.Error(t, err)
	assert.Equal(t, model.ErrProductNotFound, err)
}

func TestCategoryRepository_GetAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	repo := NewCategoryRepository(pool, logger)

	seedCategories(t, pool, []string{"Toys", "Books", "Electronics"})

	ctx := context.Background()
	categories, err := repo.GetAll(ctx)

	require.NoError(t, err)
	require.Len(t, categories, 3)

	// Ordered by name
	assert.Equal(t, "Books", categories[0].Name)
	assert.Equal(t, "Electronics", categories[1].Name)
	assert.Equal(t, "Toys", categories[2].Name)
}

func TestCategoryRepository_Exists(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	repo := NewCategoryRepository(pool, logger)

	cats := seedCategories(t, pool, []string{"Books"})

	ctx := context.Background()

	exists, err := repo.Exists(ctx, cats["Books"])
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, cats["Books"]+1000)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestProductRepository_ErrorPaths(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	repo := NewProductRepository(pool, logger)

	// Close the pool to simulate database errors
	pool.Close()

	t.Run("GetAll with closed pool", func(t *testing.T) {
		products, err := repo.GetAll(context.Background())

		require.Error(t, err)
		assert.Nil(t, products)
	})

	t.Run("GetByID with closed pool", func(t *testing.T) {
		product, err := repo.GetByID(context.Background(), 1)

		require.Error(t, err)
		assert.Nil(t, product)
	})

	t.Run("BeginTx with closed pool", func(t *testing.T) {
		tx, err := repo.BeginTx(context.Background())

		require.Error(t, err)
		assert.Nil(t, tx)
	})
}
