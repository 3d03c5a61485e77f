package repository_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storeline/pos/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func (suite *repositorySuite) TestInsertSale() {
	defer suite.deleteAll()

	tests := []struct {
		name      string
		sale      domain.Sale
		wantError string
	}{
		{
			name: "insert sale: ok",
			sale: randomSale(),
		},
		{
			name: "insert sale with customer and notes: ok",
			sale: func() domain.Sale {
				sale := randomSale()
				customerID := uuid.MustParse(gofakeit.UUID())
				sale.CustomerID = &customerID
				sale.Notes = "paid in exact change"
				return sale
			}(),
		},
		{
			name: "insert sale with empty cashier ID: error",
			sale: func() domain.Sale {
				sale := randomSale()
				sale.CashierID = uuid.Nil
				return sale
			}(),
			wantError: "cashier ID is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			inserted, err := suite.sales.InsertSale(ctx, tt.sale)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			assert.NotEqual(t, uuid.Nil, inserted.ID)
			assert.False(t, inserted.CreatedAt.IsZero())

			suite.deleteAll()
		})
	}
}

func (suite *repositorySuite) TestSaleRoundTrip() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	sale := randomSale()
	sale.Subtotal = decimal.RequireFromString("17.50")
	sale.Tax = decimal.RequireFromString("1.40")
	sale.Discount = decimal.Zero
	sale.Total = decimal.RequireFromString("18.90")

	inserted, err := suite.sales.InsertSale(ctx, sale)
	require.NoError(t, err)

	items := []domain.SaleItem{
		{
			SaleID:      inserted.ID,
			ProductID:   uuid.MustParse(gofakeit.UUID()),
			ProductName: "Coffee",
			Quantity:    1,
			UnitPrice:   decimal.RequireFromString("7.50"),
			TotalPrice:  decimal.RequireFromString("7.50"),
		},
		{
			SaleID:      inserted.ID,
			ProductID:   uuid.MustParse(gofakeit.UUID()),
			ProductName: "Muffin",
			Quantity:    2,
			UnitPrice:   decimal.RequireFromString("5.00"),
			TotalPrice:  decimal.RequireFromString("10.00"),
		},
	}
	require.NoError(t, suite.sales.InsertSaleItems(ctx, inserted.ID, items))

	listed, err := suite.sales.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	// totals survive the round trip exactly, no floating drift
	assert.True(t, sale.Subtotal.Equal(listed[0].Subtotal), "subtotal = %s", listed[0].Subtotal)
	assert.True(t, sale.Tax.Equal(listed[0].Tax), "tax = %s", listed[0].Tax)
	assert.True(t, sale.Total.Equal(listed[0].Total), "total = %s", listed[0].Total)

	require.Len(t, listed[0].Items, 2)
	for i, item := range listed[0].Items {
		assertSaleItem(t, items[i], item)
	}
}

func (suite *repositorySuite) TestInsertSaleItems_Validation() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	err := suite.sales.InsertSaleItems(ctx, uuid.Nil, []domain.SaleItem{{}})
	require.EqualError(t, err, "sale ID is empty")

	err = suite.sales.InsertSaleItems(ctx, uuid.MustParse(gofakeit.UUID()), nil)
	require.EqualError(t, err, "items are empty")
}

func (suite *repositorySuite) TestInsertSaleItems_AllOrNothing() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	inserted, err := suite.sales.InsertSale(ctx, randomSale())
	require.NoError(t, err)

	items := []domain.SaleItem{
		{
			SaleID:      inserted.ID,
			ProductID:   uuid.MustParse(gofakeit.UUID()),
			ProductName: "Valid",
			Quantity:    1,
			UnitPrice:   decimal.NewFromInt(1),
			TotalPrice:  decimal.NewFromInt(1),
		},
		{
			SaleID:      inserted.ID,
			ProductID:   uuid.MustParse(gofakeit.UUID()),
			ProductName: "Broken",
			Quantity:    0, // violates the quantity > 0 check constraint
			UnitPrice:   decimal.NewFromInt(1),
			TotalPrice:  decimal.NewFromInt(1),
		},
	}

	err = suite.sales.InsertSaleItems(ctx, inserted.ID, items)

	var backendErr *domain.BackendWriteError
	require.ErrorAs(t, err, &backendErr)

	// the transaction rolled back: no partial item set
	listed, err := suite.sales.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Empty(t, listed[0].Items, "header exists without items, the known inconsistency window")
}

func (suite *repositorySuite) TestListRecent_NewestFirstAndCapped() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	var ids []uuid.UUID
	for range 5 {
		inserted, err := suite.sales.InsertSale(ctx, randomSale())
		require.NoError(t, err)
		ids = append(ids, inserted.ID)
		time.Sleep(5 * time.Millisecond) // distinct created_at ordering
	}

	listed, err := suite.sales.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, listed, 3)

	assert.Equal(t, ids[4], listed[0].ID)
	assert.Equal(t, ids[3], listed[1].ID)
	assert.Equal(t, ids[2], listed[2].ID)
}

func (suite *repositorySuite) TestTodayTotals() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	first := randomSale()
	first.Total = decimal.RequireFromString("10.00")
	second := randomSale()
	second.Total = decimal.RequireFromString("5.50")

	for _, sale := range []domain.Sale{first, second} {
		_, err := suite.sales.InsertSale(ctx, sale)
		require.NoError(t, err)
	}

	total, count, err := suite.sales.TodayTotals(ctx, time.Now())
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("15.50").Equal(total), "total = %s", total)
	assert.Equal(t, 2, count)
}

func (suite *repositorySuite) TestTodayTotals_Empty() {
	defer suite.deleteAll()

	t := suite.T()

	total, count, err := suite.sales.TodayTotals(t.Context(), time.Now())
	require.NoError(t, err)

	assert.True(t, total.IsZero())
	assert.Equal(t, 0, count)
}

func randomSale() domain.Sale {
	subtotal := decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2)
	tax := subtotal.Mul(domain.TaxRate).Round(2)

	return domain.Sale{
		CashierID:     uuid.MustParse(gofakeit.UUID()),
		Subtotal:      subtotal,
		Discount:      decimal.Zero,
		Tax:           tax,
		Total:         subtotal.Add(tax),
		Currency:      currency.USD,
		PaymentMethod: domain.PaymentCash,
	}
}

func assertSaleItem(t *testing.T, expected, actual domain.SaleItem) {
	t.Helper()

	decimalComparer := cmp.Comparer(func(x, y decimal.Decimal) bool {
		return x.Equal(y)
	})

	diff := cmp.Diff(expected, actual, cmp.Options{decimalComparer, cmpopts.EquateEmpty()})
	assert.Empty(t, diff)
}
