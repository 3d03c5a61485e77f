package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/storeline/pos/internal/domain"
	"github.com/storeline/pos/internal/port"
	"golang.org/x/text/currency"
)

type saleRepository struct {
	pool *pgxpool.Pool
}

func NewSale(pool *pgxpool.Pool) (port.SaleRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &saleRepository{pool: pool}, nil
}

func (r *saleRepository) InsertSale(ctx context.Context, sale domain.Sale) (domain.Sale, error) {
	if sale.CashierID == uuid.Nil {
		return domain.Sale{}, fmt.Errorf("cashier ID is empty")
	}

	var customerID uuid.NullUUID
	if sale.CustomerID != nil {
		customerID = uuid.NullUUID{UUID: *sale.CustomerID, Valid: true}
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO sales (cashier_id, customer_id, subtotal, discount, tax, total, currency, payment_method, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		sale.CashierID, customerID, sale.Subtotal, sale.Discount, sale.Tax, sale.Total,
		sale.Currency.String(), string(sale.PaymentMethod), sale.Notes,
	).Scan(&sale.ID, &sale.CreatedAt)
	if err != nil {
		return domain.Sale{}, &domain.BackendWriteError{Op: "insert sale", Err: err}
	}

	return sale, nil
}

func (r *saleRepository) InsertSaleItems(ctx context.Context, saleID uuid.UUID, items []domain.SaleItem) error {
	if saleID == uuid.Nil {
		return fmt.Errorf("sale ID is empty")
	}
	if len(items) == 0 {
		return fmt.Errorf("items are empty")
	}

	// All items commit together; only the gap between the header
	// insert and this call is non-atomic.
	_, err := withTx(ctx, r.pool, func(tx pgx.Tx) (struct{}, error) {
		for _, item := range items {
			_, err := tx.Exec(ctx, `
				INSERT INTO sale_items (sale_id, product_id, product_name, quantity, unit_price, total_price)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				saleID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.TotalPrice,
			)
			if err != nil {
				return struct{}{}, fmt.Errorf("tx.Exec: %w", err)
			}
		}
		return struct{}{}, nil
	})
	if err != nil {
		return &domain.BackendWriteError{Op: "insert sale items", Err: err}
	}

	return nil
}

const listRecentQuery = `
SELECT id, cashier_id, customer_id, subtotal, discount, tax, total, currency, payment_method,
       COALESCE(notes, ''), created_at
FROM sales
ORDER BY created_at DESC
LIMIT $1`

func (r *saleRepository) ListRecent(ctx context.Context, limit int) ([]domain.Sale, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	rows, err := r.pool.Query(ctx, listRecentQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var sales []domain.Sale
	for rows.Next() {
		sale, err := scanSaleRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanSaleRow: %w", err)
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	if err := r.attachItems(ctx, sales); err != nil {
		return nil, fmt.Errorf("attachItems: %w", err)
	}

	return sales, nil
}

func (r *saleRepository) TodayTotals(ctx context.Context, now time.Time) (decimal.Decimal, int, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var (
		total decimal.Decimal
		count int
	)
	err := r.pool.QueryRow(ctx,
		"SELECT COALESCE(SUM(total), 0), COUNT(*) FROM sales WHERE created_at >= $1", midnight,
	).Scan(&total, &count)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("pool.QueryRow: %w", err)
	}

	return total, count, nil
}

// attachItems loads the line items for all sales in one query and
// distributes them by sale id.
func (r *saleRepository) attachItems(ctx context.Context, sales []domain.Sale) error {
	if len(sales) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(sales))
	for _, sale := range sales {
		ids = append(ids, sale.ID)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT sale_id, product_id, product_name, quantity, unit_price, total_price
		FROM sale_items
		WHERE sale_id = ANY ($1)
		ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	itemsBySale := make(map[uuid.UUID][]domain.SaleItem, len(sales))
	for rows.Next() {
		var item domain.SaleItem
		err := rows.Scan(&item.SaleID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice)
		if err != nil {
			return fmt.Errorf("rows.Scan: %w", err)
		}
		itemsBySale[item.SaleID] = append(itemsBySale[item.SaleID], item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows.Err: %w", err)
	}

	for i := range sales {
		sales[i].Items = itemsBySale[sales[i].ID]
	}
	return nil
}

func scanSaleRow(rows pgx.Rows) (domain.Sale, error) {
	var (
		sale          domain.Sale
		customerID    uuid.NullUUID
		currencyCode  string
		paymentMethod string
	)

	err := rows.Scan(&sale.ID, &sale.CashierID, &customerID, &sale.Subtotal, &sale.Discount,
		&sale.Tax, &sale.Total, &currencyCode, &paymentMethod, &sale.Notes, &sale.CreatedAt)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("rows.Scan: %w", err)
	}

	parsedCurrency, err := currency.ParseISO(currencyCode)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("currency[%s] is not valid: %w", currencyCode, err)
	}
	sale.Currency = parsedCurrency

	method, err := domain.ParsePaymentMethod(paymentMethod)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("domain.ParsePaymentMethod: %w", err)
	}
	sale.PaymentMethod = method

	if customerID.Valid {
		id := customerID.UUID
		sale.CustomerID = &id
	}

	return sale, nil
}
