package repository_test

import (
	"testing"

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

func (suite *repositorySuite) TestInsertProduct() {
	defer suite.deleteAll()

	tests := []struct {
		name      string
		product   domain.Product
		wantError string
	}{
		{
			name:    "insert product: ok",
			product: randomProduct(),
		},
		{
			name: "insert product with zero price: ok",
			product: domain.Product{
				Name:   gofakeit.ProductName(),
				Price:  domain.NewMoney(decimal.Zero, currency.USD),
				Stock:  5,
				Active: true,
			},
		},
		{
			name: "insert product with empty name: error",
			product: domain.Product{
				Price: domain.NewMoney(decimal.NewFromInt(1), currency.USD),
			},
			wantError: "invalid name: must not be empty",
		},
		{
			name: "insert product with negative stock: error",
			product: domain.Product{
				Name:  gofakeit.ProductName(),
				Price: domain.NewMoney(decimal.NewFromInt(1), currency.USD),
				Stock: -1,
			},
			wantError: "invalid stock: must not be negative",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			inserted, err := suite.products.InsertProduct(ctx, tt.product)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			assert.NotEqual(t, uuid.Nil, inserted.ID)
			assert.False(t, inserted.CreatedAt.IsZero())

			listed, err := suite.products.ListProducts(ctx)
			require.NoError(t, err)
			require.Len(t, listed, 1)
			assertProduct(t, inserted, listed[0])

			suite.deleteAll()
		})
	}
}

func (suite *repositorySuite) TestListProducts_OrderAndCategoryName() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	category, err := suite.categories.InsertCategory(ctx, "Beverages")
	require.NoError(t, err)

	banana := randomProduct()
	banana.Name = "Banana"

	apple := randomProduct()
	apple.Name = "Apple Juice"
	apple.CategoryID = &category.ID

	_, err = suite.products.InsertProduct(ctx, banana)
	require.NoError(t, err)
	_, err = suite.products.InsertProduct(ctx, apple)
	require.NoError(t, err)

	listed, err := suite.products.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)

	// ordered by name
	assert.Equal(t, "Apple Juice", listed[0].Name)
	assert.Equal(t, "Banana", listed[1].Name)

	// category names resolved
	assert.Equal(t, "Beverages", listed[0].CategoryName)
	assert.Equal(t, "Uncategorized", listed[1].CategoryName)
}

func (suite *repositorySuite) TestUpdateProduct() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	inserted, err := suite.products.InsertProduct(ctx, randomProduct())
	require.NoError(t, err)

	inserted.Name = "Renamed"
	inserted.Price.Amount = decimal.RequireFromString("9.99")
	inserted.Stock = 42
	inserted.Active = false
	require.NoError(t, suite.products.UpdateProduct(ctx, inserted))

	listed, err := suite.products.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	assert.Equal(t, "Renamed", listed[0].Name)
	assert.True(t, decimal.RequireFromString("9.99").Equal(listed[0].Price.Amount))
	assert.Equal(t, 42, listed[0].Stock)
	assert.False(t, listed[0].Active)

	// unknown product
	missing := randomProduct()
	missing.ID = uuid.MustParse(gofakeit.UUID())
	err = suite.products.UpdateProduct(ctx, missing)
	require.ErrorContains(t, err, "not found")
}

func (suite *repositorySuite) TestDeleteProduct() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	inserted, err := suite.products.InsertProduct(ctx, randomProduct())
	require.NoError(t, err)

	deleted, err := suite.products.DeleteProduct(ctx, inserted.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = suite.products.DeleteProduct(ctx, inserted.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	listed, err := suite.products.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func (suite *repositorySuite) TestCountLowStock() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	low := randomProduct()
	low.Stock = domain.LowStockThreshold - 1

	atThreshold := randomProduct()
	atThreshold.Stock = domain.LowStockThreshold

	inactiveLow := randomProduct()
	inactiveLow.Stock = 0
	inactiveLow.Active = false

	for _, product := range []domain.Product{low, atThreshold, inactiveLow} {
		_, err := suite.products.InsertProduct(ctx, product)
		require.NoError(t, err)
	}

	count, err := suite.products.CountLowStock(ctx, domain.LowStockThreshold)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "strictly below threshold, active only")
}

func randomProduct() domain.Product {
	return domain.Product{
		Name:     gofakeit.ProductName(),
		Price:    domain.NewMoney(decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2), currency.USD),
		Stock:    gofakeit.Number(1, 100),
		SKU:      gofakeit.LetterN(8),
		Barcode:  gofakeit.DigitN(13),
		ImageURL: gofakeit.URL(),
		Active:   true,
	}
}

func assertProduct(t *testing.T, expected, actual domain.Product) {
	t.Helper()

	currencyComparer := cmp.Comparer(func(x, y currency.Unit) bool {
		return x.String() == y.String()
	})
	decimalComparer := cmp.Comparer(func(x, y decimal.Decimal) bool {
		return x.Equal(y)
	})

	opts := cmp.Options{
		cmpopts.IgnoreFields(domain.Product{}, "CategoryName", "CreatedAt", "UpdatedAt"),
		currencyComparer,
		decimalComparer,
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)

	assert.False(t, actual.CreatedAt.IsZero())
}
