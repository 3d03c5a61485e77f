package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/storeline/pos/internal/domain"
	"github.com/storeline/pos/internal/port"
	"golang.org/x/text/currency"
)

type productRepository struct {
	pool *pgxpool.Pool
}

func NewProduct(pool *pgxpool.Pool) (port.ProductRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &productRepository{pool: pool}, nil
}

const listProductsQuery = `
SELECT p.id, p.name, p.price_amount, p.price_currency, p.category_id,
       COALESCE(c.name, 'Uncategorized') AS category_name,
       p.stock, COALESCE(p.sku, ''), COALESCE(p.barcode, ''), COALESCE(p.image_url, ''),
       p.is_active, p.created_at, p.updated_at
FROM products p
         LEFT JOIN categories c ON c.id = p.category_id
ORDER BY p.name`

func (r *productRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsQuery)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProductRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanProductRow: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return products, nil
}

func (r *productRepository) InsertProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if err := product.Validate(); err != nil {
		return domain.Product{}, err
	}

	var categoryID uuid.NullUUID
	if product.CategoryID != nil {
		categoryID = uuid.NullUUID{UUID: *product.CategoryID, Valid: true}
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO products (name, price_amount, price_currency, category_id, stock, sku, barcode, image_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		product.Name, product.Price.Amount, product.Price.Currency.String(), categoryID,
		product.Stock, product.SKU, product.Barcode, product.ImageURL, product.Active,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return domain.Product{}, &domain.BackendWriteError{Op: "insert product", Err: err}
	}

	return product, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	if product.ID == uuid.Nil {
		return fmt.Errorf("product ID is empty")
	}
	if err := product.Validate(); err != nil {
		return err
	}

	var categoryID uuid.NullUUID
	if product.CategoryID != nil {
		categoryID = uuid.NullUUID{UUID: *product.CategoryID, Valid: true}
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE products
		SET name           = $2,
		    price_amount   = $3,
		    price_currency = $4,
		    category_id    = $5,
		    stock          = $6,
		    sku            = $7,
		    barcode        = $8,
		    image_url      = $9,
		    is_active      = $10,
		    updated_at     = NOW()
		WHERE id = $1`,
		product.ID, product.Name, product.Price.Amount, product.Price.Currency.String(), categoryID,
		product.Stock, product.SKU, product.Barcode, product.ImageURL, product.Active,
	)
	if err != nil {
		return &domain.BackendWriteError{Op: "update product", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s not found", product.ID)
	}

	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error) {
	if id == uuid.Nil {
		return false, fmt.Errorf("product ID is empty")
	}

	tag, err := r.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return false, &domain.BackendWriteError{Op: "delete product", Err: err}
	}

	return tag.RowsAffected() > 0, nil
}

func (r *productRepository) CountLowStock(ctx context.Context, threshold int) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM products WHERE is_active AND stock < $1", threshold,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pool.QueryRow: %w", err)
	}

	return count, nil
}

func scanProductRow(rows pgx.Rows) (domain.Product, error) {
	var (
		product      domain.Product
		currencyCode string
		categoryID   uuid.NullUUID
	)

	err := rows.Scan(&product.ID, &product.Name, &product.Price.Amount, &currencyCode, &categoryID,
		&product.CategoryName, &product.Stock, &product.SKU, &product.Barcode, &product.ImageURL,
		&product.Active, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return domain.Product{}, fmt.Errorf("rows.Scan: %w", err)
	}

	parsedCurrency, err := currency.ParseISO(currencyCode)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", currencyCode, err)
	}
	product.Price.Currency = parsedCurrency

	if categoryID.Valid {
		id := categoryID.UUID
		product.CategoryID = &id
	}

	return product, nil
}
