package models

import (
	"time"

	"github.com/google/uuid"

	"goflare.io/atelier/models/enum"
)

// Event 代表訂單事件. The same record travels over NATS and lives in the
// events table.
type Event struct {
	ID        string         `json:"id"`
	Type      enum.EventType `json:"type"`
	OrderID   string         `json:"order_id"`
	Processed bool           `json:"processed"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewOrderPlacedEvent announces that order was committed.
func NewOrderPlacedEvent(order *Order) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      enum.EventTypeOrderPlaced,
		OrderID:   order.ID,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.CreatedAt,
	}
}
