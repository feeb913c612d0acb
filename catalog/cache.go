package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"

	"goflare.io/atelier/models"
)

var ErrCacheMiss = errors.New("cache miss")

// Cache holds the storefront's list of active products. Entries are keyed by
// a version that Invalidate bumps, so a fill that read the database before an
// invalidation lands under a version nobody reads any more.
type Cache interface {
	Version(ctx context.Context) (int64, error)
	GetActive(ctx context.Context, version int64) ([]*models.Product, error)
	SetActive(ctx context.Context, version int64, products []*models.Product) error
	Invalidate(ctx context.Context) error
}

const (
	activeProductsKey  = "catalog:products:active"
	productsVersionKey = "catalog:products:version"
)

func activeProductsKeyAt(version int64) string {
	return fmt.Sprintf("%s:%d", activeProductsKey, version)
}

var _ Cache = (*RedisCache)(nil)

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

// Version returns the current cache version; 0 until the first invalidation.
func (r *RedisCache) Version(ctx context.Context) (int64, error) {
	version, err := r.client.Get(ctx, productsVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get version failed: %w", err)
	}
	return version, nil
}

func (r *RedisCache) GetActive(ctx context.Context, version int64) ([]*models.Product, error) {
	data, err := r.client.Get(ctx, activeProductsKeyAt(version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var products []*models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal products failed: %w", err)
	}
	return products, nil
}

func (r *RedisCache) SetActive(ctx context.Context, version int64, products []*models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal products failed: %w", err)
	}

	jitter := time.Duration(rand.IntN(5)) * time.Minute
	if err := r.client.Set(ctx, activeProductsKeyAt(version), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Invalidate bumps the version and drops the entry of the previous one.
func (r *RedisCache) Invalidate(ctx context.Context) error {
	version, err := r.client.Incr(ctx, productsVersionKey).Result()
	if err != nil {
		return fmt.Errorf("redis incr failed: %w", err)
	}
	if err := r.client.Del(ctx, activeProductsKeyAt(version-1)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

var _ Cache = NoopCache{}

// NoopCache always misses. Used when no Redis is configured.
type NoopCache struct{}

func (NoopCache) Version(context.Context) (int64, error) { return 0, nil }

func (NoopCache) GetActive(context.Context, int64) ([]*models.Product, error) { return nil, ErrCacheMiss }

func (NoopCache) SetActive(context.Context, int64, []*models.Product) error { return nil }

func (NoopCache) Invalidate(context.Context) error { return nil }
