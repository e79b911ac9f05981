package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"shop-admin/internal/blob"
	"shop-admin/internal/model"
	"shop-admin/internal/repository"

	"github.com/rs/zerolog"
)

const (
	maxNameLength        = 255
	maxDescriptionLength = 4000
)

// productService implements ProductService. It coordinates the product
// repository and the blob store so that a product record and its image file
// stay paired: replacing an image deletes the previous file, and deleting a
// product removes its file alongside the record.
//
// The delete-old-file, write-new-file, persist-record sequence is not
// transactional: a failed persist after a successful file write leaves an
// orphaned file behind.
type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	store        blob.Store
	logger       zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	store blob.Store,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		store:        store,
		logger:       logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves all products joined with their categories.
func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	s.logger.Debug().Int("count", len(products)).Msg("retrieved products")

	return products, nil
}

// PrepareForEdit builds the form view model for a create (id <= 0) or an
// edit of an existing product.
func (s *productService) PrepareForEdit(ctx context.Context, id int64) (*model.ProductFormView, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load categories for form")
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	if id <= 0 {
		return &model.ProductFormView{
			Product:    &model.Product{},
			Categories: categories,
		}, nil
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to load product for edit")
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product to edit not found")
		return nil, model.ErrProductNotFound
	}

	return &model.ProductFormView{
		Product:    product,
		Categories: categories,
	}, nil
}

// Upsert validates and persists the product. With a file attached and the
// input valid, the previous image file (if any) is deleted, the upload is
// written under a freshly generated name, and the record's image path is
// updated. Without a file the existing image path is left untouched.
func (s *productService) Upsert(ctx context.Context, in *model.ProductInput, file *model.Upload) (*model.UpsertResult, error) {
	fieldErrors, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	if len(fieldErrors) > 0 {
		categories, err := s.categoryRepo.GetAll(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to refresh categories for rejected form")
			return nil, fmt.Errorf("failed to load categories: %w", err)
		}

		s.logger.Debug().
			Int64("product_id", in.ID).
			Int("field_errors", len(fieldErrors)).
			Msg("product submission rejected")

		return &model.UpsertResult{
			Invalid: &model.InvalidForm{
				Input:      in,
				Errors:     fieldErrors,
				Categories: categories,
			},
		}, nil
	}

	product := &model.Product{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
	}

	// Updates carry the stored image path forward so that no file upload
	// leaves the image untouched, and so a replacement knows which file to
	// remove.
	if in.ID != 0 {
		existing, err := s.productRepo.GetByID(ctx, in.ID)
		if err != nil {
			s.logger.Error().Err(err).Int64("product_id", in.ID).Msg("failed to load product for update")
			return nil, fmt.Errorf("failed to load product: %w", err)
		}
		if existing == nil {
			s.logger.Debug().Int64("product_id", in.ID).Msg("product to update not found")
			return nil, model.ErrProductNotFound
		}
		product.ImagePath = existing.ImagePath
		product.CreatedAt = existing.CreatedAt
	}

	if file != nil {
		if err := s.replaceImage(ctx, product, file); err != nil {
			return nil, err
		}
	}

	tx, err := s.productRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	created := in.ID == 0
	if created {
		err = s.productRepo.Create(ctx, tx, product)
	} else {
		err = s.productRepo.Update(ctx, tx, product)
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", product.ID).Msg("failed to persist product")
		return nil, fmt.Errorf("failed to persist product: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("product_id", product.ID).Msg("failed to commit product")
		return nil, fmt.Errorf("failed to commit product: %w", err)
	}

	s.logger.Info().
		Int64("product_id", product.ID).
		Bool("created", created).
		Bool("has_image", product.HasImage()).
		Msg("product saved")

	return &model.UpsertResult{
		Created: created,
		Product: product,
	}, nil
}

// replaceImage deletes the product's previous image file, writes the upload
// under a generated unique name, and points the product at the new path.
func (s *productService) replaceImage(ctx context.Context, product *model.Product, file *model.Upload) error {
	if product.HasImage() {
		if err := s.store.DeleteIfExists(ctx, *product.ImagePath); err != nil {
			s.logger.Error().
				Err(err).
				Str("image_path", *product.ImagePath).
				Msg("failed to delete previous image")
			return fmt.Errorf("failed to delete previous image: %w", err)
		}
	}

	imagePath := blob.ProductImagePath(blob.NewImageName(file.Filename))
	if err := s.store.Write(ctx, imagePath, file.Content); err != nil {
		s.logger.Error().
			Err(err).
			Str("image_path", imagePath).
			Msg("failed to store uploaded image")
		return fmt.Errorf("failed to store uploaded image: %w", err)
	}

	product.ImagePath = &imagePath

	s.logger.Debug().
		Str("image_path", imagePath).
		Str("original_filename", file.Filename).
		Msg("product image stored")

	return nil
}

// Delete removes the product record and its image file. A missing or
// invalid id is reported in the result rather than returned as an error.
func (s *productService) Delete(ctx context.Context, id int64) (*model.DeleteResult, error) {
	if id <= 0 {
		s.logger.Warn().Int64("product_id", id).Msg("delete requested with invalid id")
		return &model.DeleteResult{Success: false, Message: "Invalid product id"}, nil
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to load product for delete")
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product to delete not found")
		return &model.DeleteResult{Success: false, Message: "Product not found"}, nil
	}

	if product.HasImage() {
		if err := s.store.DeleteIfExists(ctx, *product.ImagePath); err != nil {
			s.logger.Error().
				Err(err).
				Int64("product_id", id).
				Str("image_path", *product.ImagePath).
				Msg("failed to delete product image")
			return nil, fmt.Errorf("failed to delete product image: %w", err)
		}
	}

	tx, err := s.productRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.productRepo.Delete(ctx, tx, id); err != nil {
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to commit delete")
		return nil, fmt.Errorf("failed to commit delete: %w", err)
	}

	s.logger.Info().Int64("product_id", id).Msg("product deleted")

	return &model.DeleteResult{Success: true, Message: "Product deleted successfully"}, nil
}

// validate checks the submitted fields and returns per-field messages for
// anything rejected. Field errors carry no side effects.
func (s *productService) validate(ctx context.Context, in *model.ProductInput) (map[string]string, error) {
	fieldErrors := make(map[string]string)

	if in.Name == "" {
		fieldErrors["name"] = "Name is required"
	} else if utf8.RuneCountInString(in.Name) > maxNameLength {
		fieldErrors["name"] = fmt.Sprintf("Name must be at most %d characters", maxNameLength)
	}

	if utf8.RuneCountInString(in.Description) > maxDescriptionLength {
		fieldErrors["description"] = fmt.Sprintf("Description must be at most %d characters", maxDescriptionLength)
	}

	if in.Price < 0 {
		fieldErrors["price"] = "Price must not be negative"
	}

	if in.CategoryID <= 0 {
		fieldErrors["categoryId"] = "Category is required"
	} else {
		exists, err := s.categoryRepo.Exists(ctx, in.CategoryID)
		if err != nil {
			s.logger.Error().Err(err).Int64("category_id", in.CategoryID).Msg("failed to check category")
			return nil, fmt.Errorf("failed to check category: %w", err)
		}
		if !exists {
			fieldErrors["categoryId"] = "Unknown category"
		}
	}

	return fieldErrors, nil
}
