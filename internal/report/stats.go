package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storeline/pos/internal/domain"
	"github.com/storeline/pos/internal/port"
)

// RecentSalesLimit caps how many sales feed the chart and the recent
// sales list.
const RecentSalesLimit = 50

// ComputeStats assembles the dashboard aggregate from today's totals
// and the low-stock count. Average order value is zero when there are
// no orders.
func ComputeStats(todayTotal decimal.Decimal, orderCount, lowStockCount int) domain.SaleStats {
	avg := decimal.Zero
	if orderCount > 0 {
		avg = todayTotal.Div(decimal.NewFromInt(int64(orderCount))).Round(2)
	}
	return domain.SaleStats{
		TodaySales:    todayTotal,
		TotalOrders:   orderCount,
		AvgOrderValue: avg,
		LowStockItems: lowStockCount,
	}
}

// Service reads sale and product data and derives the dashboard
// views. It holds no state of its own.
type Service struct {
	sales    port.SaleRepository
	products port.ProductRepository
}

func NewService(sales port.SaleRepository, products port.ProductRepository) *Service {
	return &Service{sales: sales, products: products}
}

// Stats recomputes the dashboard aggregate from current data.
func (s *Service) Stats(ctx context.Context, now time.Time) (domain.SaleStats, error) {
	todayTotal, orderCount, err := s.sales.TodayTotals(ctx, now)
	if err != nil {
		return domain.SaleStats{}, fmt.Errorf("sales.TodayTotals: %w", err)
	}

	lowStock, err := s.products.CountLowStock(ctx, domain.LowStockThreshold)
	if err != nil {
		return domain.SaleStats{}, fmt.Errorf("products.CountLowStock: %w", err)
	}

	return ComputeStats(todayTotal, orderCount, lowStock), nil
}

// HourlyChart buckets the most recent sales into the trailing hourly
// windows ending at now.
func (s *Service) HourlyChart(ctx context.Context, now time.Time) ([]HourlyBucket, error) {
	sales, err := s.sales.ListRecent(ctx, RecentSalesLimit)
	if err != nil {
		return nil, fmt.Errorf("sales.ListRecent: %w", err)
	}
	return HourlySales(sales, now), nil
}
