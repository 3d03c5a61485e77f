// Package settings holds the store, notification and appearance
// preferences as an explicit configuration object with a dedicated
// load/save interface. Consumers receive a Settings value by
// injection; there is no ambient global lookup.
package settings

import (
	"context"

	"golang.org/x/text/currency"
)

type Settings struct {
	Store         StoreProfile      `json:"store"`
	Notifications NotificationPrefs `json:"notifications"`
	Appearance    AppearancePrefs   `json:"appearance"`
}

// StoreProfile is the business identity printed on receipts and
// reports.
type StoreProfile struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	TaxID    string `json:"tax_id"`
	Currency string `json:"currency"`
}

// CurrencyUnit parses the profile's currency code.
func (p StoreProfile) CurrencyUnit() (currency.Unit, error) {
	return currency.ParseISO(p.Currency)
}

type NotificationPrefs struct {
	LowStockAlerts bool `json:"low_stock_alerts"`
	DailySummary   bool `json:"daily_summary"`
	SaleReceipts   bool `json:"sale_receipts"`
}

type AppearancePrefs struct {
	Theme       string `json:"theme"`
	CompactMode bool   `json:"compact_mode"`
}

// Default returns the settings used before anything has been saved.
func Default() Settings {
	return Settings{
		Store: StoreProfile{
			Currency: "USD",
		},
		Notifications: NotificationPrefs{
			LowStockAlerts: true,
			SaleReceipts:   true,
		},
		Appearance: AppearancePrefs{
			Theme: "system",
		},
	}
}

// Store persists settings to a process-local key-value store.
type Store interface {
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}
