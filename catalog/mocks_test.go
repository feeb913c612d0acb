package catalog

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/jackc/pgx/v5"

	"goflare.io/atelier/models"
)

// fakeRepository is an in-memory Repository.
type fakeRepository struct {
	mu        sync.Mutex
	products  map[string]*models.Product
	listCalls atomic.Int32
	createErr error
	// afterList runs once the active products have been read.
	afterList func(ctx context.Context)
}

func newFakeRepository(products ...*models.Product) *fakeRepository {
	r := &fakeRepository{products: make(map[string]*models.Product)}
	for _, p := range products {
		c := p.Clone()
		r.products[p.ID] = &c
	}
	return r
}

func (r *fakeRepository) ListActive(ctx context.Context, _ pgx.Tx) ([]*models.Product, error) {
	r.listCalls.Add(1)
	r.mu.Lock()
	out := make([]*models.Product, 0)
	for _, p := range r.sorted() {
		if p.Active {
			out = append(out, p)
		}
	}
	r.mu.Unlock()

	if r.afterList != nil {
		r.afterList(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *fakeRepository) List(_ context.Context, _ pgx.Tx) ([]*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(), nil
}

func (r *fakeRepository) GetByID(_ context.Context, _ pgx.Tx, id string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	c := p.Clone()
	return &c, nil
}

func (r *fakeRepository) Create(_ context.Context, _ pgx.Tx, product *models.Product) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	c := product.Clone()
	r.products[product.ID] = &c
	return nil
}

func (r *fakeRepository) Update(_ context.Context, _ pgx.Tx, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return ErrProductNotFound
	}
	c := product.Clone()
	r.products[product.ID] = &c
	return nil
}

func (r *fakeRepository) Delete(_ context.Context, _ pgx.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeRepository) SetActive(_ context.Context, _ pgx.Tx, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return ErrProductNotFound
	}
	p.Active = active
	return nil
}

func (r *fakeRepository) Count(_ context.Context, _ pgx.Tx) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.products), nil
}

func (r *fakeRepository) sorted() []*models.Product {
	out := make([]*models.Product, 0, len(r.products))
	for _, p := range r.products {
		c := p.Clone()
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// fakeTransactor runs fn without a transaction. serializable, when set,
// counts serializable runs.
type fakeTransactor struct {
	serializable *atomic.Int32
}

func (fakeTransactor) ExecuteTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

func (f fakeTransactor) ExecuteSerializableTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	if f.serializable != nil {
		f.serializable.Add(1)
	}
	return fn(nil)
}
