package domain

import (
	"time"

	"github.com/google/uuid"
)

// LowStockThreshold is the stock level below which an active product
// is flagged for restocking.
const LowStockThreshold = 10

type Product struct {
	ID         uuid.UUID
	Name       string
	Price      Money
	CategoryID *uuid.UUID

	// CategoryName is resolved from the category reference on listing;
	// "Uncategorized" when no category is set.
	CategoryName string

	Stock    int
	SKU      string
	Barcode  string
	ImageURL string
	Active   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate rejects products that must never reach the store.
func (p Product) Validate() error {
	if p.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if p.Price.IsNegative() {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if p.Stock < 0 {
		return &ValidationError{Field: "stock", Reason: "must not be negative"}
	}
	return nil
}

type Category struct {
	ID   uuid.UUID
	Name string
}
