package enum

type EventType string

const (
	EventTypeOrderPlaced EventType = "order.placed"
)
