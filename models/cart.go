package models

import (
	"github.com/shopspring/decimal"
)

// CartLine 代表購物車中的單個商品項目
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal is quantity × unit price.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart 代表購物車
type Cart struct {
	Lines []CartLine `json:"items"`
}

func NewCart() *Cart {
	return &Cart{Lines: []CartLine{}}
}

// TotalItems is the sum of all line quantities.
func (c Cart) TotalItems() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice is recomputed from the lines on every call.
func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Line returns the line holding productID, if any.
func (c Cart) Line(productID string) (CartLine, bool) {
	for _, line := range c.Lines {
		if line.Product.ID == productID {
			return line, true
		}
	}
	return CartLine{}, false
}
