package catalog

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goflare.io/atelier/models"
)

func strPtr(s string) *string { return &s }

func TestParseProduct(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		row     productRow
		want    *models.Product
		wantErr bool
	}{
		{
			name: "complete row",
			row: productRow{
				ID: "ceramic-planter", Title: "Ceramic Planter Set", Description: strPtr("Terracotta"),
				Image: "planter.jpg", Images: []string{"planter.jpg", "planter-2.jpg"},
				Price: decimal.NewFromInt(38), Category: strPtr("Home Decor"), Active: true, CreatedAt: created,
			},
			want: &models.Product{
				ID: "ceramic-planter", Title: "Ceramic Planter Set", Description: "Terracotta",
				Image: "planter.jpg", Images: []string{"planter.jpg", "planter-2.jpg"},
				Price: decimal.NewFromInt(38), Category: "Home Decor", Active: true, CreatedAt: created,
			},
		},
		{
			name: "null description and category default to empty",
			row:  productRow{ID: "a", Title: "A", Image: "a.jpg", Price: decimal.NewFromInt(1)},
			want: &models.Product{ID: "a", Title: "A", Image: "a.jpg", Images: []string{"a.jpg"}, Price: decimal.NewFromInt(1)},
		},
		{
			name: "blank image references dropped",
			row:  productRow{ID: "a", Title: "A", Images: []string{" ", "b.jpg", ""}, Price: decimal.Zero},
			want: &models.Product{ID: "a", Title: "A", Images: []string{"b.jpg"}, Price: decimal.Zero},
		},
		{
			name:    "empty id rejected",
			row:     productRow{ID: " ", Title: "A", Price: decimal.NewFromInt(1)},
			wantErr: true,
		},
		{
			name:    "empty title rejected",
			row:     productRow{ID: "a", Title: "", Price: decimal.NewFromInt(1)},
			wantErr: true,
		},
		{
			name:    "negative price rejected",
			row:     productRow{ID: "a", Title: "A", Price: decimal.NewFromInt(-1)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseProduct(tt.row)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidProduct)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.ID, got.ID)
			assert.Equal(t, tt.want.Title, got.Title)
			assert.Equal(t, tt.want.Description, got.Description)
			assert.Equal(t, tt.want.Category, got.Category)
			assert.Equal(t, tt.want.Image, got.Image)
			assert.Equal(t, tt.want.Images, got.Images)
			assert.True(t, tt.want.Price.Equal(got.Price))
			assert.Equal(t, tt.want.Active, got.Active)
			assert.Equal(t, tt.want.CreatedAt, got.CreatedAt)
		})
	}
}

func TestSplitImages(t *testing.T) {
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, SplitImages("a.jpg\n\n  b.jpg \n"))
	assert.Empty(t, SplitImages(""))
}

func TestValidateProduct(t *testing.T) {
	assert.NoError(t, ValidateProduct(&models.Product{Title: "A", Price: decimal.Zero}))
	assert.ErrorIs(t, ValidateProduct(&models.Product{Title: " ", Price: decimal.Zero}), ErrInvalidProduct)
	assert.ErrorIs(t, ValidateProduct(&models.Product{Title: "A", Price: decimal.NewFromInt(-5)}), ErrInvalidProduct)
}
