package main

import (
	"context"
	"fmt"
	"os"

	"shop-admin/internal/config"

	"github.com/jackc/pgx/v5"
)

const schema = `
	CREATE TABLE IF NOT EXISTS categories (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
		category_id BIGINT NOT NULL REFERENCES categories(id),
		image_path TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_products_category_id ON products(category_id);
	CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);
`

// setupdb creates the shop-admin schema and seeds the default categories.
// Safe to run repeatedly.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.Database.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, schema); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create schema: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Schema created")

	categories := []string{"Books", "Electronics", "Clothing", "Home & Garden"}
	for _, name := range categories {
		_, err := conn.Exec(ctx,
			"INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING",
			name,
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to seed category %s: %v\n", name, err)
			os.Exit(1)
		}
	}

	fmt.Printf("Seeded %d categories\n", len(categories))
}
