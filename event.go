package atelier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"goflare.io/atelier/models"
	"goflare.io/atelier/models/enum"
)

const (
	eventSubjectPrefix = "atelier.event."
	eventSubjectAll    = eventSubjectPrefix + ">"
)

// EventSubject is the NATS subject events of eventType are published on.
func EventSubject(eventType enum.EventType) string {
	return eventSubjectPrefix + string(eventType)
}

type EventHandler func(context.Context, *models.Event) error

// NATSConn is the part of *nats.Conn the event manager uses.
type NATSConn interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error)
}

type EventManager struct {
	natsConn NATSConn
	mu       sync.RWMutex
	handlers map[enum.EventType]EventHandler
	sub      *nats.Subscription
	logger   *zap.Logger
}

func NewEventManager(natsConn NATSConn, logger *zap.Logger) *EventManager {
	return &EventManager{
		natsConn: natsConn,
		handlers: make(map[enum.EventType]EventHandler),
		logger:   logger,
	}
}

func (em *EventManager) RegisterHandler(eventType enum.EventType, handler EventHandler) {
	em.mu.Lock()
	defer em.mu.Unlock()
	em.handlers[eventType] = handler
}

func (em *EventManager) GetHandler(eventType enum.EventType) (EventHandler, bool) {
	em.mu.RLock()
	defer em.mu.RUnlock()
	handler, exists := em.handlers[eventType]
	return handler, exists
}

// PublishOrderPlaced announces a committed order.
func (em *EventManager) PublishOrderPlaced(_ context.Context, event *models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := em.natsConn.Publish(EventSubject(event.Type), data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// SubscribeToEvents feeds every atelier event into wp.
func (em *EventManager) SubscribeToEvents(wp *WorkerPool) error {
	sub, err := em.natsConn.Subscribe(eventSubjectAll, em.msgHandler(wp))
	if err != nil {
		return fmt.Errorf("failed to subscribe to events: %w", err)
	}
	em.sub = sub
	return nil
}

func (em *EventManager) msgHandler(wp *WorkerPool) nats.MsgHandler {
	return func(msg *nats.Msg) {
		var event models.Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			em.logger.Error("Failed to unmarshal event", zap.String("subject", msg.Subject), zap.Error(err))
			return
		}

		if err := wp.Submit(context.Background(), &event); err != nil {
			em.logger.Warn("Dropped event", zap.String("event_id", event.ID), zap.Error(err))
		}
	}
}

// Unsubscribe stops receiving events.
func (em *EventManager) Unsubscribe() error {
	if em.sub == nil {
		return nil
	}
	return em.sub.Unsubscribe()
}
