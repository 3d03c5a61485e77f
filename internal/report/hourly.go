// Package report computes the derived views behind the dashboard:
// hourly sales buckets for the chart and the day's aggregate stats.
// Everything here is a pure function over an explicit snapshot of the
// underlying data; nothing is cached or persisted.
package report

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/storeline/pos/internal/domain"
)

// HourlyWindowCount is the number of trailing one-hour buckets on the
// sales chart.
const HourlyWindowCount = 12

// HourlyBucket is one chart point: the window start and the sum of
// sale totals inside it, rounded to two decimal places.
type HourlyBucket struct {
	Start time.Time
	Total decimal.Decimal
}

// HourlySales buckets sales into the 12 trailing one-hour windows
// ending at now. Each window is half-open [start, next); the final
// window additionally includes its right edge, so a sale stamped
// exactly now is counted. Windows with no sales report zero, not
// absence.
func HourlySales(sales []domain.Sale, now time.Time) []HourlyBucket {
	first := now.Truncate(time.Hour).Add(-time.Duration(HourlyWindowCount-1) * time.Hour)

	buckets := make([]HourlyBucket, HourlyWindowCount)
	for i := range buckets {
		buckets[i] = HourlyBucket{
			Start: first.Add(time.Duration(i) * time.Hour),
			Total: decimal.Zero,
		}
	}

	for _, sale := range sales {
		ts := sale.CreatedAt
		if ts.Before(first) || ts.After(now) {
			continue
		}
		idx := int(ts.Sub(first) / time.Hour)
		if idx >= HourlyWindowCount {
			continue
		}
		buckets[idx].Total = buckets[idx].Total.Add(sale.Total)
	}

	for i := range buckets {
		buckets[i].Total = buckets[i].Total.Round(2)
	}
	return buckets
}
