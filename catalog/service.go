package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"goflare.io/atelier/driver"
	"goflare.io/atelier/models"
)

type Service interface {
	ListActive(ctx context.Context) ([]*models.Product, error)
	List(ctx context.Context) ([]*models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetActiveProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	ToggleActive(ctx context.Context, id string) (*models.Product, error)
	SeedDefaults(ctx context.Context) (int, error)
}

const loadTimeout = 5 * time.Second

type service struct {
	repo   Repository
	cache  Cache
	tx     driver.SerializableTransactor
	sfg    singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, cache Cache, tx driver.SerializableTransactor, logger *zap.Logger) Service {
	if cache == nil {
		cache = NoopCache{}
	}
	return &service{
		repo:   repo,
		cache:  cache,
		tx:     tx,
		logger: logger,
	}
}

// ListActive serves the storefront listing from the cache, loading it from
// the database once for all concurrent callers on a miss. A caller that gives
// up does not cancel the shared load.
func (s *service) ListActive(ctx context.Context) ([]*models.Product, error) {
	ch := s.sfg.DoChan(activeProductsKey, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return s.loadActive(loadCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]*models.Product), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *service) loadActive(ctx context.Context) ([]*models.Product, error) {
	version, err := s.cache.Version(ctx)
	if err != nil {
		s.logger.Warn("Failed to get product cache version", zap.Error(err))
		return s.repo.ListActive(ctx, nil)
	}

	products, err := s.cache.GetActive(ctx, version)
	if err == nil {
		return products, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		s.logger.Warn("Failed to get products from cache", zap.Error(err))
	}

	products, err = s.repo.ListActive(ctx, nil)
	if err != nil {
		return nil, err
	}

	// 寫回讀取前的版本；期間若已失效則不會被讀到
	if err := s.cache.SetActive(ctx, version, products); err != nil {
		s.logger.Warn("Failed to cache products", zap.Error(err))
	}
	return products, nil
}

func (s *service) List(ctx context.Context) ([]*models.Product, error) {
	return s.repo.List(ctx, nil)
}

func (s *service) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, nil, id)
}

// GetActiveProduct hides inactive products from the storefront.
func (s *service) GetActiveProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *service) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := ValidateProduct(product); err != nil {
		return err
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	product.Images = normalizeImages(product.Images)

	if err := s.repo.Create(ctx, nil, product); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := ValidateProduct(product); err != nil {
		return err
	}
	product.Images = normalizeImages(product.Images)

	if err := s.repo.Update(ctx, nil, product); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, nil, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ToggleActive flips the product's active flag. Concurrent toggles are
// serialized so each one sees the other's result.
func (s *service) ToggleActive(ctx context.Context, id string) (*models.Product, error) {
	var product *models.Product
	err := s.tx.ExecuteSerializableTransaction(ctx, func(tx pgx.Tx) error {
		p, err := s.repo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		p.Active = !p.Active
		if err := s.repo.SetActive(ctx, tx, id, p.Active); err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return product, nil
}

// SeedDefaults inserts DefaultProducts when the catalog is empty and reports
// how many products were created.
func (s *service) SeedDefaults(ctx context.Context) (int, error) {
	created := 0
	err := s.tx.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		count, err := s.repo.Count(ctx, tx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		for _, product := range DefaultProducts() {
			if err := s.repo.Create(ctx, tx, product); err != nil {
				return fmt.Errorf("failed to seed product %s: %w", product.ID, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if created > 0 {
		s.logger.Info("Seeded catalog", zap.Int("products", created))
		s.invalidate(ctx)
	}
	return created, nil
}

func (s *service) invalidate(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Failed to invalidate product cache", zap.Error(err))
	}
}
