package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"shop-admin/internal/model"
	"shop-admin/internal/service"

	"github.com/rs/zerolog"
)

// maxUploadMemory bounds the in-memory portion of a multipart parse; larger
// uploads spill to temp files.
const maxUploadMemory = 32 << 20

const (
	msgProductAdded   = "Product added successfully"
	msgProductUpdated = "Product updated successfully"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products requests. The payload is shaped for a
// client-side data table: a single "data" array of products with their
// categories resolved.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidForm, "method not allowed", h.logger)
		return
	}

	products, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to retrieve products", h.logger)
		return
	}

	if products == nil {
		products = []model.Product{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"data": products})
}

// EditForm handles GET /api/products/new and GET /api/products/{id}/edit
// requests, returning the form view model (product plus category options).
func (h *ProductHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidForm, "method not allowed", h.logger)
		return
	}

	// Expecting path: /api/products/new or /api/products/{id}/edit
	rest := strings.TrimPrefix(r.URL.Path, "/api/products/")
	rest = strings.TrimSuffix(rest, "/edit")

	var id int64
	if rest != "new" {
		var err error
		id, err = strconv.ParseInt(rest, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidForm, "invalid product id", h.logger)
			return
		}
	}

	view, err := h.service.PrepareForEdit(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, model.ErrCodeProductNotFound, "product not found", h.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to prepare product form", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Upsert handles POST /api/products requests carrying the product form
// fields and an optional image attachment.
func (h *ProductHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidForm, "method not allowed", h.logger)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidForm, "malformed form submission", h.logger)
			return
		}
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidForm, "malformed form submission", h.logger)
			return
		}
	}

	in, err := parseProductInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidForm, err.Error(), h.logger)
		return
	}

	file, closer, err := extractUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidForm, "unreadable image attachment", h.logger)
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	result, err := h.service.Upsert(r.Context(), in, file)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, model.ErrCodeProductNotFound, "product not found", h.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, model.ErrCodeStorageWriteError, "failed to save product", h.logger)
		return
	}

	if result.Invalid != nil {
		writeJSON(w, http.StatusUnprocessableEntity, result.Invalid)
		return
	}

	status := http.StatusOK
	message := msgProductUpdated
	if result.Created {
		status = http.StatusCreated
		message = msgProductAdded
	}

	writeJSON(w, status, map[string]interface{}{
		"message": message,
		"product": result.Product,
	})
}

// Delete handles DELETE /api/products/{id} requests. A missing or invalid
// id yields a structured failure, not an HTTP error.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInvalidForm, "method not allowed", h.logger)
		return
	}

	// Expecting path: /api/products/{id}
	rest := strings.TrimPrefix(r.URL.Path, "/api/products/")
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusOK, model.DeleteResult{Success: false, Message: "Invalid product id"})
		return
	}

	result, err := h.service.Delete(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to delete product", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// parseProductInput reads the submitted form fields into a ProductInput.
func parseProductInput(r *http.Request) (*model.ProductInput, error) {
	in := &model.ProductInput{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}

	if raw := r.FormValue("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.New("invalid id field")
		}
		in.ID = id
	}

	if raw := r.FormValue("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New("invalid price field")
		}
		in.Price = price
	}

	if raw := r.FormValue("categoryId"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.New("invalid categoryId field")
		}
		in.CategoryID = categoryID
	}

	return in, nil
}

// extractUpload pulls the optional image attachment out of the request. An
// absent file is not an error. The returned file must be closed by the
// caller when non-nil.
func extractUpload(r *http.Request) (*model.Upload, multipart.File, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	return &model.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	}, file, nil
}
