package cart

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goflare.io/atelier/models"
)

func fakeLines(t *testing.T, n int) []models.CartLine {
	t.Helper()
	lines := make([]models.CartLine, 0, n)
	for range n {
		lines = append(lines, models.CartLine{
			Product: models.Product{
				ID:          gofakeit.UUID(),
				Title:       gofakeit.ProductName(),
				Description: gofakeit.ProductDescription(),
				Image:       gofakeit.URL(),
				Images:      []string{gofakeit.URL()},
				Price:       decimal.NewFromFloat(gofakeit.Price(1, 500)).Round(2),
				Category:    gofakeit.ProductCategory(),
				Active:      true,
			},
			Quantity: gofakeit.IntRange(1, 9),
		})
	}
	return lines
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	lines := fakeLines(t, 4)

	data, err := Encode(lines)
	require.NoError(t, err)
	got, err := Decode(data)
	require.NoError(t, err)

	if diff := cmp.Diff(lines, got, cartCmpOpts...); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_Shape(t *testing.T) {
	data, err := Encode([]models.CartLine{{Product: product("a", "45.00"), Quantity: 2}})
	require.NoError(t, err)

	assert.JSONEq(t, `[{
		"product": {
			"id": "a",
			"title": "Piece a",
			"description": "",
			"image": "",
			"images": null,
			"price": "45",
			"category": "Decoração",
			"active": true,
			"created_at": "0001-01-01T00:00:00Z"
		},
		"quantity": 2
	}]`, string(data))
}

func TestDecode_Normalises(t *testing.T) {
	data := []byte(`[
		{"product": {"id": "a", "title": "A", "price": "45"}, "quantity": 2},
		{"product": {"id": "", "title": "no id", "price": "1"}, "quantity": 1},
		{"product": {"id": "b", "title": "B", "price": "38"}, "quantity": 0},
		{"product": {"id": "a", "title": "A", "price": "45"}, "quantity": 3},
		{"product": {"id": "c", "title": "C", "price": "10"}, "quantity": -1}
	]`)

	lines, err := Decode(data)
	require.NoError(t, err)

	require.Len(t, lines, 1)
	assert.Equal(t, "a", lines[0].Product.ID)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte(`{"items": 3}`))
	assert.Error(t, err)
}
