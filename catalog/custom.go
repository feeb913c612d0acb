package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"goflare.io/atelier/models"
)

// CustomPieceCategory is the category of made-to-order pieces.
const CustomPieceCategory = "Peça Personalizada"

// NewCustomPiece builds the product for a made-to-order request so it can be
// added to the cart like any catalog product.
func NewCustomPiece(title, description string, price decimal.Decimal, now time.Time) (models.Product, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	switch {
	case title == "":
		return models.Product{}, fmt.Errorf("%w: title is required", ErrInvalidProduct)
	case description == "":
		return models.Product{}, fmt.Errorf("%w: description is required", ErrInvalidProduct)
	case !price.IsPositive():
		return models.Product{}, fmt.Errorf("%w: price must be greater than zero", ErrInvalidProduct)
	}

	return models.Product{
		ID:          fmt.Sprintf("custom-%d", now.UnixMilli()),
		Title:       title,
		Description: description,
		Images:      []string{},
		Price:       price,
		Category:    CustomPieceCategory,
		Active:      true,
		CreatedAt:   now,
	}, nil
}
