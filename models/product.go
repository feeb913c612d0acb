package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product 代表目錄中的商品 (a handmade piece in the catalog)
type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Images      []string        `json:"images"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Clone returns a copy that shares no slices with p.
func (p Product) Clone() Product {
	if p.Images != nil {
		p.Images = append([]string(nil), p.Images...)
	}
	return p
}
