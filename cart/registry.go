package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

type entry struct {
	store    *Store
	lastUsed time.Time
}

// Registry hands out the Store of each browser session, restoring it from
// storage the first time the session is seen. At most size stores are held;
// the least recently used one is dropped beyond that, and a store idle for
// longer than idleTTL is reloaded from storage on its next use.
type Registry struct {
	mu      sync.Mutex
	stores  *lru.Cache[string, *entry]
	idleTTL time.Duration
	now     func() time.Time
	storage Storage
	logger  *zap.Logger
}

// NewRegistry builds a Registry holding up to size stores. An idleTTL of zero
// keeps stores until they are pushed out by size.
func NewRegistry(storage Storage, size int, idleTTL time.Duration, logger *zap.Logger) (*Registry, error) {
	stores, err := lru.New[string, *entry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart registry: %w", err)
	}
	return &Registry{
		stores:  stores,
		idleTTL: idleTTL,
		now:     time.Now,
		storage: storage,
		logger:  logger,
	}, nil
}

func (r *Registry) Get(ctx context.Context, sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if e, ok := r.stores.Get(sessionID); ok {
		if r.idleTTL <= 0 || now.Sub(e.lastUsed) < r.idleTTL {
			e.lastUsed = now
			return e.store
		}
		// 閒置過久：丟棄記憶體中的副本，改從儲存重新載入
		r.stores.Remove(sessionID)
	}

	store := NewStore(ctx, SessionKey(sessionID), r.storage, r.logger)
	r.stores.Add(sessionID, &entry{store: store, lastUsed: now})
	return store
}

// Forget clears the session's cart and drops it from the registry.
func (r *Registry) Forget(ctx context.Context, sessionID string) {
	r.mu.Lock()
	e, ok := r.stores.Peek(sessionID)
	r.stores.Remove(sessionID)
	r.mu.Unlock()

	if ok {
		e.store.Clear(ctx)
	}
	if err := r.storage.Delete(ctx, SessionKey(sessionID)); err != nil {
		r.logger.Warn("Failed to delete cart", zap.String("session_id", sessionID), zap.Error(err))
	}
}

// Len reports how many sessions currently hold a store.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stores.Len()
}
