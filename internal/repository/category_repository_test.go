package repository_test

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *repositorySuite) TestInsertCategory() {
	defer suite.deleteAll()

	tests := []struct {
		name      string
		input     string
		wantName  string
		wantError string
	}{
		{
			name:     "insert category: ok",
			input:    "Snacks",
			wantName: "Snacks",
		},
		{
			name:     "whitespace is trimmed",
			input:    "  Desserts  ",
			wantName: "Desserts",
		},
		{
			name:      "empty name: error",
			input:     "   ",
			wantError: "invalid name: must not be empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			category, err := suite.categories.InsertCategory(t.Context(), tt.input)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, category.Name)
		})
	}
}

func (suite *repositorySuite) TestInsertCategory_CaseInsensitiveDedup() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	first, err := suite.categories.InsertCategory(ctx, "Beverages")
	require.NoError(t, err)

	duplicate, err := suite.categories.InsertCategory(ctx, "bEVERAGES")
	require.NoError(t, err)

	// the existing row is returned, nothing new is written
	assert.Equal(t, first.ID, duplicate.ID)
	assert.Equal(t, "Beverages", duplicate.Name)

	listed, err := suite.categories.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func (suite *repositorySuite) TestListCategories_OrderedByName() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	for _, name := range []string{"Snacks", "Beverages", "Food"} {
		_, err := suite.categories.InsertCategory(ctx, name)
		require.NoError(t, err)
	}

	listed, err := suite.categories.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)

	names := make([]string, 0, len(listed))
	for _, category := range listed {
		names = append(names, category.Name)
	}
	assert.Equal(t, []string{"Beverages", "Food", "Snacks"}, names)
}
