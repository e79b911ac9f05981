package service

import (
	"context"

	"shop-admin/internal/model"
)

// ProductService defines the product lifecycle operations exposed to the
// admin boundary. Callers are assumed to be authorised already.
type ProductService interface {
	// List retrieves all products joined with their categories.
	List(ctx context.Context) ([]model.Product, error)

	// PrepareForEdit builds the form view model: the category options plus
	// either an empty product (id <= 0) or the product fetched by id.
	// Returns model.ErrProductNotFound when id refers to no record.
	PrepareForEdit(ctx context.Context, id int64) (*model.ProductFormView, error)

	// Upsert validates and persists the product, managing the lifecycle of
	// its uploaded image. A validation failure produces a result carrying
	// the rejected form and performs no persistence or file mutation.
	Upsert(ctx context.Context, in *model.ProductInput, file *model.Upload) (*model.UpsertResult, error)

	// Delete removes the product record and its image file. A missing or
	// invalid id is a reported failure in the result, not an error.
	Delete(ctx context.Context, id int64) (*model.DeleteResult, error)
}
