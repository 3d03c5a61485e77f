package domain

import "github.com/shopspring/decimal"

// SaleStats is the derived dashboard aggregate. It is recomputed from
// current sale and product data, never stored.
type SaleStats struct {
	TodaySales    decimal.Decimal
	TotalOrders   int
	AvgOrderValue decimal.Decimal
	LowStockItems int
}
