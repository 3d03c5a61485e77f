package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storeline/pos/internal/domain"
)

type SaleRepository interface {
	// InsertSale stores the sale header only and returns it with the
	// generated id and creation timestamp filled in. Line items are
	// written separately by InsertSaleItems; the two phases are not
	// atomic with each other.
	InsertSale(ctx context.Context, sale domain.Sale) (domain.Sale, error)

	// InsertSaleItems stores the line-item snapshots for saleID. The
	// items are written in a single transaction: all or none.
	InsertSaleItems(ctx context.Context, saleID uuid.UUID, items []domain.SaleItem) error

	// ListRecent returns up to limit sales, newest first, each with
	// its line items attached.
	ListRecent(ctx context.Context, limit int) ([]domain.Sale, error)

	// TodayTotals sums the totals and counts the sales recorded since
	// local midnight of now.
	TodayTotals(ctx context.Context, now time.Time) (decimal.Decimal, int, error)
}
