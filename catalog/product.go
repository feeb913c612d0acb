// Package catalog reads and manages the products offered in the storefront.
package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"goflare.io/atelier/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")
)

// productRow mirrors a products table row before boundary validation.
type productRow struct {
	ID          string
	Title       string
	Description *string
	Image       string
	Images      []string
	Price       decimal.Decimal
	Category    *string
	Active      bool
	CreatedAt   time.Time
}

// parseProduct turns a stored row into a Product, rejecting rows that cannot
// be sold: no id, no title or a negative price.
func parseProduct(row productRow) (*models.Product, error) {
	if strings.TrimSpace(row.ID) == "" {
		return nil, fmt.Errorf("%w: empty id", ErrInvalidProduct)
	}
	if strings.TrimSpace(row.Title) == "" {
		return nil, fmt.Errorf("%w: product %s has no title", ErrInvalidProduct, row.ID)
	}
	if row.Price.IsNegative() {
		return nil, fmt.Errorf("%w: product %s has negative price %s", ErrInvalidProduct, row.ID, row.Price)
	}

	product := &models.Product{
		ID:        row.ID,
		Title:     row.Title,
		Image:     strings.TrimSpace(row.Image),
		Images:    normalizeImages(row.Images),
		Price:     row.Price,
		Active:    row.Active,
		CreatedAt: row.CreatedAt,
	}
	if row.Description != nil {
		product.Description = *row.Description
	}
	if row.Category != nil {
		product.Category = *row.Category
	}
	if len(product.Images) == 0 && product.Image != "" {
		product.Images = []string{product.Image}
	}

	return product, nil
}

// normalizeImages drops blank image references and keeps the order of the rest.
func normalizeImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, image := range images {
		if image = strings.TrimSpace(image); image != "" {
			out = append(out, image)
		}
	}
	return out
}

// SplitImages parses the newline separated image list the backoffice form submits.
func SplitImages(text string) []string {
	return normalizeImages(strings.Split(text, "\n"))
}

// ValidateProduct checks a product submitted through the backoffice.
func ValidateProduct(p *models.Product) error {
	switch {
	case strings.TrimSpace(p.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidProduct)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	return nil
}
