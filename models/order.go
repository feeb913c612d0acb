package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"

	"goflare.io/atelier/models/enum"
)

// Order 代表訂單. Items are frozen at checkout time.
type Order struct {
	ID            string           `json:"id"`
	CustomerName  string           `json:"customer_name"`
	CustomerEmail string           `json:"customer_email"`
	TotalAmount   decimal.Decimal  `json:"total_amount"`
	Currency      stripe.Currency  `json:"currency"`
	Status        enum.OrderStatus `json:"status"`
	Items         []OrderLine      `json:"items"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// OrderLine 代表訂單中的單個商品項目
type OrderLine struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"product_title"`
	Price     decimal.Decimal `json:"product_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// NewOrder freezes a cart snapshot into an order for the given customer.
func NewOrder(cart Cart, customerName, customerEmail string, currency stripe.Currency, now time.Time) *Order {
	items := make([]OrderLine, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, OrderLine{
			ProductID: line.Product.ID,
			Title:     line.Product.Title,
			Price:     line.Product.Price,
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal(),
		})
	}

	return &Order{
		ID:            uuid.NewString(),
		CustomerName:  strings.TrimSpace(customerName),
		CustomerEmail: strings.TrimSpace(customerEmail),
		TotalAmount:   cart.TotalPrice(),
		Currency:      currency,
		Status:        enum.OrderStatusReceived,
		Items:         items,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ItemCount is the number of pieces in the order.
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

func (o *Order) Validate() error {
	if o.CustomerName == "" {
		return errors.New("customer name is required")
	}
	if o.CustomerEmail == "" {
		return errors.New("customer email is required")
	}
	if len(o.Items) == 0 {
		return errors.New("order has no items")
	}
	if o.TotalAmount.IsNegative() {
		return errors.New("order total is negative")
	}
	return nil
}
