package model

import "io"

// ProductInput carries the submitted form fields for a create or update.
// ID zero requests a create; a nonzero ID requests an update.
type ProductInput struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CategoryID  int64   `json:"categoryId"`
}

// Upload is an uploaded file attachment. Filename is the client-supplied
// name, used only for its extension; Content is consumed exactly once.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// ProductFormView is the view model for the product form: the product being
// edited (empty for a create) plus the selectable category options.
type ProductFormView struct {
	Product    *Product   `json:"product"`
	Categories []Category `json:"categories"`
}

// InvalidForm echoes a rejected submission back to the boundary so the form
// can re-render with the user's input preserved.
type InvalidForm struct {
	Input      *ProductInput     `json:"input"`
	Errors     map[string]string `json:"errors"`
	Categories []Category        `json:"categories"`
}

// UpsertResult is the outcome of an Upsert. Exactly one of Product and
// Invalid is set: Invalid is non-nil when validation rejected the input and
// nothing was persisted.
type UpsertResult struct {
	Created bool         `json:"created"`
	Product *Product     `json:"product,omitempty"`
	Invalid *InvalidForm `json:"invalid,omitempty"`
}

// DeleteResult is the structured outcome of a delete request. A not-found
// or invalid identifier is a reported failure, not an error.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
