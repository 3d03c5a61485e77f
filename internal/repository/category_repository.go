package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/storeline/pos/internal/domain"
	"github.com/storeline/pos/internal/port"
)

type categoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategory(pool *pgxpool.Pool) (port.CategoryRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &categoryRepository{pool: pool}, nil
}

func (r *categoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, "SELECT id, name FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return categories, nil
}

func (r *categoryRepository) InsertCategory(ctx context.Context, name string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	// Case-insensitive dedup before insert: "snacks" resolves to an
	// existing "Snacks" instead of a second row.
	var existing domain.Category
	err := r.pool.QueryRow(ctx,
		"SELECT id, name FROM categories WHERE LOWER(name) = LOWER($1)", name,
	).Scan(&existing.ID, &existing.Name)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return domain.Category{}, fmt.Errorf("pool.QueryRow: %w", err)
	}

	category := domain.Category{Name: name}
	err = r.pool.QueryRow(ctx,
		"INSERT INTO categories (name) VALUES ($1) RETURNING id", name,
	).Scan(&category.ID)
	if err != nil {
		return domain.Category{}, &domain.BackendWriteError{Op: "insert category", Err: err}
	}

	return category, nil
}
