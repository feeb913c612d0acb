package checkout

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"

	"goflare.io/atelier/models"
)

// fakeDB implements Transactor, OrderCreator and EventRecorder. Writes made
// inside ExecuteTransaction become visible only if fn returns nil.
type fakeDB struct {
	mu        sync.Mutex
	orders    []*models.Order
	events    []*models.Event
	pending   []func()
	createErr error
}

func (db *fakeDB) ExecuteTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	db.mu.Lock()
	db.pending = nil
	db.mu.Unlock()

	if err := fn(nil); err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	for _, apply := range db.pending {
		apply()
	}
	db.pending = nil
	return nil
}

func (db *fakeDB) CreateOrder(_ context.Context, _ pgx.Tx, order *models.Order) error {
	if db.createErr != nil {
		return db.createErr
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	db.pending = append(db.pending, func() { db.orders = append(db.orders, order) })
	return nil
}

func (db *fakeDB) Create(_ context.Context, _ pgx.Tx, event *models.Event) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.pending = append(db.pending, func() { db.events = append(db.events, event) })
	return nil
}

type fakeNotifier struct {
	// duringStore runs inside NotifyStore, before the transaction commits.
	duringStore func()
	storeErr    error
	customerErr error
	store       []*models.Order
	customer    []*models.Order
}

func (n *fakeNotifier) NotifyStore(_ context.Context, order *models.Order) error {
	if n.duringStore != nil {
		n.duringStore()
	}
	if n.storeErr != nil {
		return n.storeErr
	}
	n.store = append(n.store, order)
	return nil
}

func (n *fakeNotifier) NotifyCustomer(_ context.Context, order *models.Order) error {
	if n.customerErr != nil {
		return n.customerErr
	}
	n.customer = append(n.customer, order)
	return nil
}

type fakePublisher struct {
	published []*models.Event
	err       error
}

func (p *fakePublisher) PublishOrderPlaced(_ context.Context, event *models.Event) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, event)
	return nil
}

var errBoom = errors.New("boom")
