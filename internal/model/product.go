package model

import "time"

// Product represents a catalogue product managed through the admin panel.
// An ID of zero means the product has not been persisted yet.
type Product struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	CategoryID  int64     `json:"categoryId" db:"category_id"`
	Category    *Category `json:"category,omitempty"`
	ImagePath   *string   `json:"imagePath" db:"image_path"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// HasImage reports whether the product currently owns a stored image file.
func (p *Product) HasImage() bool {
	return p.ImagePath != nil && *p.ImagePath != ""
}

// Category represents a product category. Categories are read-only in this
// service: they are referenced by products and listed as form options.
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
