// Package cart holds the shopping cart of a browser session: a list of product
// lines mirrored to durable storage on every change.
package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"goflare.io/atelier/models"
)

// Observer receives the cart as it is after a mutation.
type Observer func(models.Cart)

// Store is the cart of one session. Mutations never fail: persistence is best
// effort and the in-memory lines stay authoritative.
type Store struct {
	mu    sync.Mutex
	key   string
	lines []models.CartLine

	storage Storage
	logger  *zap.Logger

	observerMu sync.Mutex
	observers  map[uint64]Observer
	nextID     uint64
}

// NewStore restores the cart kept under key, or starts an empty one.
func NewStore(ctx context.Context, key string, storage Storage, logger *zap.Logger) *Store {
	s := &Store{
		key:       key,
		lines:     []models.CartLine{},
		storage:   storage,
		logger:    logger.With(zap.String("cart_key", key)),
		observers: make(map[uint64]Observer),
	}
	s.restore(ctx)
	return s
}

func (s *Store) restore(ctx context.Context) {
	data, err := s.storage.Load(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.Warn("Failed to load cart, starting empty", zap.Error(err))
		return
	}

	lines, err := Decode(data)
	if err != nil {
		s.logger.Warn("Discarding unreadable cart", zap.Error(err))
		return
	}
	s.lines = lines
}

// AddItem increments the line for product, or appends a new line with quantity 1.
func (s *Store) AddItem(ctx context.Context, product models.Product) {
	s.mutate(ctx, func(lines []models.CartLine) []models.CartLine {
		if i := indexOf(lines, product.ID); i >= 0 {
			lines[i].Quantity++
			return lines
		}
		return append(lines, models.CartLine{Product: product.Clone(), Quantity: 1})
	})
}

// RemoveItem deletes the line for productID; an absent product is a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID string) {
	s.mutate(ctx, func(lines []models.CartLine) []models.CartLine {
		return removeLine(lines, productID)
	})
}

// UpdateQuantity sets the quantity of productID's line. A quantity of zero or
// less removes the line; an absent product is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	s.mutate(ctx, func(lines []models.CartLine) []models.CartLine {
		if quantity <= 0 {
			return removeLine(lines, productID)
		}
		if i := indexOf(lines, productID); i >= 0 {
			lines[i].Quantity = quantity
		}
		return lines
	})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mutate(ctx, func([]models.CartLine) []models.CartLine {
		return []models.CartLine{}
	})
}

// Subtract takes the quantities in ordered off the matching lines, dropping
// lines that reach zero. Lines added after ordered was taken are kept.
func (s *Store) Subtract(ctx context.Context, ordered models.Cart) {
	s.mutate(ctx, func(lines []models.CartLine) []models.CartLine {
		for _, o := range ordered.Lines {
			i := indexOf(lines, o.Product.ID)
			if i < 0 {
				continue
			}
			if lines[i].Quantity -= o.Quantity; lines[i].Quantity <= 0 {
				lines = append(lines[:i], lines[i+1:]...)
			}
		}
		return lines
	})
}

// Snapshot returns a copy of the cart that later mutations do not affect.
func (s *Store) Snapshot() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.lines)
}

func (s *Store) TotalItems() int {
	return s.Snapshot().TotalItems()
}

func (s *Store) TotalPrice() decimal.Decimal {
	return s.Snapshot().TotalPrice()
}

// Key is the storage key this store persists under.
func (s *Store) Key() string {
	return s.key
}

// Subscribe registers fn to be called after every mutation. The returned
// function removes the registration.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.observerMu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.observerMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.observerMu.Lock()
			delete(s.observers, id)
			s.observerMu.Unlock()
		})
	}
}

func (s *Store) mutate(ctx context.Context, fn func([]models.CartLine) []models.CartLine) {
	s.mu.Lock()
	s.lines = fn(s.lines)
	current := snapshot(s.lines)
	s.persist(ctx, current.Lines)
	s.mu.Unlock()

	s.notify(current)
}

// persist runs under s.mu so writes reach storage in mutation order.
func (s *Store) persist(ctx context.Context, lines []models.CartLine) {
	data, err := Encode(lines)
	if err != nil {
		s.logger.Warn("Failed to encode cart", zap.Error(err))
		return
	}
	if err := s.storage.Save(ctx, s.key, data); err != nil {
		s.logger.Warn("Failed to persist cart", zap.Error(err))
	}
}

func (s *Store) notify(cart models.Cart) {
	s.observerMu.Lock()
	observers := make([]Observer, 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.observerMu.Unlock()

	for _, o := range observers {
		o(snapshot(cart.Lines))
	}
}

func snapshot(lines []models.CartLine) models.Cart {
	out := make([]models.CartLine, len(lines))
	for i, line := range lines {
		out[i] = models.CartLine{Product: line.Product.Clone(), Quantity: line.Quantity}
	}
	return models.Cart{Lines: out}
}

func indexOf(lines []models.CartLine, productID string) int {
	for i, line := range lines {
		if line.Product.ID == productID {
			return i
		}
	}
	return -1
}

func removeLine(lines []models.CartLine, productID string) []models.CartLine {
	i := indexOf(lines, productID)
	if i < 0 {
		return lines
	}
	return append(lines[:i], lines[i+1:]...)
}
