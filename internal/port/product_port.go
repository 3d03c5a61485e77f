package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/storeline/pos/internal/domain"
)

type ProductRepository interface {
	// ListProducts returns all products ordered by name, each with its
	// category name resolved ("Uncategorized" when unset).
	ListProducts(ctx context.Context) ([]domain.Product, error)

	// InsertProduct stores a new product and returns it with the
	// generated id and timestamps filled in.
	InsertProduct(ctx context.Context, product domain.Product) (domain.Product, error)

	// UpdateProduct replaces the mutable fields of an existing product.
	UpdateProduct(ctx context.Context, product domain.Product) error

	// DeleteProduct removes a product, reporting whether it existed.
	DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error)

	// CountLowStock counts active products with stock strictly below
	// the threshold.
	CountLowStock(ctx context.Context, threshold int) (int, error)
}
