package atelier

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/nats-io/nats.go"

	"goflare.io/atelier/catalog"
	"goflare.io/atelier/event"
	"goflare.io/atelier/models"
	"goflare.io/atelier/models/enum"
	"goflare.io/atelier/order"
)

// fakeCatalog serves a fixed set of products. Methods the tests never reach
// fall through to the nil embedded interface.
type fakeCatalog struct {
	catalog.Service
	products map[string]*models.Product
}

func (c *fakeCatalog) ListActive(context.Context) ([]*models.Product, error) {
	var out []*models.Product
	for _, p := range c.products {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *fakeCatalog) GetActiveProduct(_ context.Context, id string) (*models.Product, error) {
	p, ok := c.products[id]
	if !ok || !p.Active {
		return nil, catalog.ErrProductNotFound
	}
	clone := p.Clone()
	return &clone, nil
}

// fakeStore implements order.Repository, event.Repository and
// driver.Transactor in memory.
type fakeStore struct {
	mu     sync.Mutex
	orders map[string]*models.Order
	events map[string]*models.Event
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders: make(map[string]*models.Order),
		events: make(map[string]*models.Event),
	}
}

func (s *fakeStore) ExecuteTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

func (s *fakeStore) CreateOrder(_ context.Context, _ pgx.Tx, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *o
	s.orders[o.ID] = &copied
	return nil
}

func (s *fakeStore) GetOrder(_ context.Context, _ pgx.Tx, id string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (s *fakeStore) ListOrders(_ context.Context, _ pgx.Tx, filter order.ListFilter) ([]*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Order
	for _, o := range s.orders {
		if filter.Contains(o.CreatedAt) {
			out = append(out, o)
		}
	}
	return out, nil
}

// Summarize and ProductSales back the dashboard, which these tests reach
// through a separate order.Service.
func (s *fakeStore) Summarize(context.Context, pgx.Tx, order.ListFilter) (*order.Summary, error) {
	return &order.Summary{}, nil
}

func (s *fakeStore) ProductSales(context.Context, pgx.Tx, order.ListFilter) ([]order.ProductSales, error) {
	return []order.ProductSales{}, nil
}

func (s *fakeStore) UpdateOrderStatus(_ context.Context, _ pgx.Tx, id string, status enum.OrderStatus, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return order.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = updatedAt
	return nil
}

func (s *fakeStore) Create(_ context.Context, _ pgx.Tx, e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.events[e.ID]; !exists {
		copied := *e
		s.events[e.ID] = &copied
	}
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, _ pgx.Tx, id string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, event.ErrEventNotFound
	}
	copied := *e
	return &copied, nil
}

func (s *fakeStore) MarkAsProcessed(_ context.Context, _ pgx.Tx, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return event.ErrEventNotFound
	}
	e.Processed = true
	return nil
}

func (s *fakeStore) storedOrder(id string) *models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id]
}

func (s *fakeStore) storedEvent(id string) *models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[id]
}

type fakeNotifier struct {
	mu       sync.Mutex
	store    []string
	customer []string
}

func (n *fakeNotifier) NotifyStore(_ context.Context, o *models.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.store = append(n.store, o.ID)
	return nil
}

func (n *fakeNotifier) NotifyCustomer(_ context.Context, o *models.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.customer = append(n.customer, o.ID)
	return nil
}

func (n *fakeNotifier) customerCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.customer)
}

// fakeNATS delivers published messages synchronously to a matching wildcard
// subscription.
type fakeNATS struct {
	mu         sync.Mutex
	published  []string
	subject    string
	handler    nats.MsgHandler
	publishErr error
}

func (f *fakeNATS) Publish(subject string, data []byte) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.mu.Lock()
	f.published = append(f.published, subject)
	handler, prefix := f.handler, strings.TrimSuffix(f.subject, ">")
	f.mu.Unlock()

	if handler != nil && strings.HasPrefix(subject, prefix) {
		handler(&nats.Msg{Subject: subject, Data: data})
	}
	return nil
}

func (f *fakeNATS) Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subject = subject
	f.handler = cb
	return nil, nil
}

type recordingProcessor struct {
	mu     sync.Mutex
	seen   []string
	err    error
	before func()
}

func (p *recordingProcessor) ProcessEvent(_ context.Context, e *models.Event) error {
	if p.before != nil {
		p.before()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen = append(p.seen, e.ID)
	return p.err
}

func (p *recordingProcessor) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.seen)
}
