// Command pos wires the store components together: the Postgres
// repositories, the local settings store, the cart engine and the
// sale recorder. It exposes a few operator commands:
//
//	pos products              list products with stock and category
//	pos categories            list categories
//	pos sales                 list recent sales with line items
//	pos stats                 today's totals and low-stock count
//	pos chart                 hourly sales for the trailing 12 hours
//	pos settings              show the local store settings
//	pos sell <id[:qty]>...    ring up a sale for the given product ids
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/storeline/pos/internal/cart"
	"github.com/storeline/pos/internal/checkout"
	"github.com/storeline/pos/internal/config"
	"github.com/storeline/pos/internal/domain"
	"github.com/storeline/pos/internal/identity"
	"github.com/storeline/pos/internal/port"
	"github.com/storeline/pos/internal/report"
	"github.com/storeline/pos/internal/repository"
	"github.com/storeline/pos/internal/settings"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "pos:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("pos", pflag.ContinueOnError)
	configPath := flags.String("config", os.Getenv(config.EnvVar), "path to the YAML config file")
	method := flags.String("method", "cash", "payment method for sell: cash, card, mobile, other")
	discount := flags.String("discount", "0", "discount applied at checkout")
	cashier := flags.String("cashier", "", "acting cashier id for sell")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if *configPath == "" {
		return fmt.Errorf("no config file: pass --config or set %s", config.EnvVar)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	products, err := repository.NewProduct(pool)
	if err != nil {
		return err
	}
	categories, err := repository.NewCategory(pool)
	if err != nil {
		return err
	}
	sales, err := repository.NewSale(pool)
	if err != nil {
		return err
	}
	stats := report.NewService(sales, products)

	store, err := settings.OpenSQLite(cfg.Settings.Path, logger)
	if err != nil {
		return fmt.Errorf("settings.OpenSQLite: %w", err)
	}
	defer store.Close()

	command := "stats"
	if flags.NArg() > 0 {
		command = flags.Arg(0)
	}

	switch command {
	case "products":
		list, err := products.ListProducts(ctx)
		if err != nil {
			return err
		}
		for _, p := range list {
			fmt.Printf("%s  %-30s %10s  stock=%-4d %s\n",
				p.ID, p.Name, p.Price, p.Stock, p.CategoryName)
		}
		return nil

	case "categories":
		list, err := categories.ListCategories(ctx)
		if err != nil {
			return err
		}
		for _, c := range list {
			fmt.Printf("%s  %s\n", c.ID, c.Name)
		}
		return nil

	case "sales":
		list, err := sales.ListRecent(ctx, report.RecentSalesLimit)
		if err != nil {
			return err
		}
		for _, s := range list {
			fmt.Printf("%s  %s  %s %s  (%d items)\n",
				s.ID, s.CreatedAt.Format(time.RFC3339), s.Total.StringFixed(2), s.Currency, len(s.Items))
			for _, item := range s.Items {
				fmt.Printf("    %dx %-30s %10s\n", item.Quantity, item.ProductName, item.TotalPrice.StringFixed(2))
			}
		}
		return nil

	case "stats":
		saleStats, err := stats.Stats(ctx, time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("today: %s in %d orders (avg %s), %d low-stock products\n",
			saleStats.TodaySales.StringFixed(2), saleStats.TotalOrders,
			saleStats.AvgOrderValue.StringFixed(2), saleStats.LowStockItems)
		return nil

	case "chart":
		buckets, err := stats.HourlyChart(ctx, time.Now())
		if err != nil {
			return err
		}
		for _, b := range buckets {
			fmt.Printf("%s  %s\n", b.Start.Format("15:04"), b.Total.StringFixed(2))
		}
		return nil

	case "settings":
		loaded, err := store.Load(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("store:         %s (%s)\n", loaded.Store.Name, loaded.Store.Currency)
		fmt.Printf("notifications: low_stock=%t daily_summary=%t receipts=%t\n",
			loaded.Notifications.LowStockAlerts, loaded.Notifications.DailySummary,
			loaded.Notifications.SaleReceipts)
		fmt.Printf("appearance:    theme=%s compact=%t\n",
			loaded.Appearance.Theme, loaded.Appearance.CompactMode)
		return nil

	case "sell":
		return sell(ctx, sellParams{
			products: products,
			sales:    sales,
			logger:   logger,
			specs:    flags.Args()[1:],
			method:   *method,
			discount: *discount,
			cashier:  *cashier,
		})

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

type sellParams struct {
	products port.ProductRepository
	sales    port.SaleRepository
	logger   *slog.Logger
	specs    []string
	method   string
	discount string
	cashier  string
}

func sell(ctx context.Context, p sellParams) error {
	if len(p.specs) == 0 {
		return fmt.Errorf("sell: no products given")
	}

	cashierID, err := uuid.Parse(p.cashier)
	if err != nil {
		return fmt.Errorf("sell: --cashier must be a valid id: %w", err)
	}
	paymentMethod, err := domain.ParsePaymentMethod(p.method)
	if err != nil {
		return err
	}
	discountAmount, err := decimal.NewFromString(p.discount)
	if err != nil {
		return fmt.Errorf("sell: --discount must be a decimal: %w", err)
	}

	catalog, err := p.products.ListProducts(ctx)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]domain.Product, len(catalog))
	for _, product := range catalog {
		byID[product.ID] = product
	}

	engine := cart.New()
	for _, spec := range p.specs {
		id, qty, err := parseSellSpec(spec)
		if err != nil {
			return err
		}
		product, ok := byID[id]
		if !ok {
			return fmt.Errorf("sell: unknown product %s", id)
		}
		for range qty {
			if err := engine.Add(product); err != nil {
				return err
			}
		}
	}

	recorder := checkout.New(engine, p.sales, identity.Static{ID: cashierID}, p.logger)
	sale, err := recorder.Checkout(ctx, checkout.Request{
		PaymentMethod: paymentMethod,
		Discount:      discountAmount,
	})
	if err != nil {
		return err
	}

	fmt.Printf("sale %s completed: %s %s\n", sale.ID, sale.Total.StringFixed(2), sale.Currency)
	return nil
}

// parseSellSpec splits "id" or "id:qty" into a product id and a
// positive quantity.
func parseSellSpec(spec string) (uuid.UUID, int, error) {
	idPart, qtyPart, found := strings.Cut(spec, ":")
	id, err := uuid.Parse(idPart)
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("sell: bad product id %q: %w", idPart, err)
	}

	qty := 1
	if found {
		qty, err = strconv.Atoi(qtyPart)
		if err != nil || qty < 1 {
			return uuid.Nil, 0, fmt.Errorf("sell: bad quantity %q", qtyPart)
		}
	}
	return id, qty, nil
}
