package port

import (
	"context"

	"github.com/storeline/pos/internal/domain"
)

type CategoryRepository interface {
	// ListCategories returns all categories ordered by name.
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// InsertCategory stores a category by name, deduplicating
	// case-insensitively: inserting "snacks" when "Snacks" exists
	// returns the existing category instead of writing a new row.
	InsertCategory(ctx context.Context, name string) (domain.Category, error)
}
