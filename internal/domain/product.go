package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a product in the catalog
type Product struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	Price        float64   `json:"price" db:"price"`
	UnitsInStock int       `json:"unitsInStock" db:"units_in_stock"`
	CategoryID   uuid.UUID `json:"categoryId" db:"category_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	// Images are attached by every read that returns products; Category only by single-product reads.
	Images   []Image   `json:"images"`
	Category *Category `json:"category,omitempty"`
}

// Category represents a product category
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Image is a path reference owned by exactly one product
type Image struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Path      string    `json:"path" db:"path"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
}
