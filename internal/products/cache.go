package products

import (
	"context"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

// CachedRepository adds a Redis read-through cache in front of another
// Repository. Cache errors are logged and never fail the call.
type CachedRepository struct {
	inner Repository
	cache redis.CacheStore
	ttl   time.Duration
	logg  *logger.Logger
}

// NewCachedRepository returns inner unchanged when cache is nil.
func NewCachedRepository(inner Repository, cache redis.CacheStore, ttl time.Duration, logg *logger.Logger) Repository {
	if cache == nil {
		return inner
	}
	return &CachedRepository{inner: inner, cache: cache, ttl: ttl, logg: logg}
}

func (r *CachedRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	key := r.cache.CatalogProductKey(id)
	var cached models.Product
	if hit, err := r.cache.GetJSON(ctx, key, &cached); err != nil {
		r.warn(ctx, key, "catalog cache read failed", err)
	} else if hit {
		return &cached, nil
	}

	product, err := r.inner.FindByID(ctx, id)
	if err != nil || product == nil {
		return product, err
	}
	if err := r.cache.SetJSON(ctx, key, product, r.ttl); err != nil {
		r.warn(ctx, key, "catalog cache write failed", err)
	}
	return product, nil
}

func (r *CachedRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	return r.inner.FindByIDs(ctx, ids)
}

func (r *CachedRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	key := r.cache.CatalogListKey()
	var cached []models.Product
	if hit, err := r.cache.GetJSON(ctx, key, &cached); err != nil {
		r.warn(ctx, key, "catalog cache read failed", err)
	} else if hit {
		return cached, nil
	}

	rows, err := r.inner.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.cache.SetJSON(ctx, key, rows, r.ttl); err != nil {
		r.warn(ctx, key, "catalog cache write failed", err)
	}
	return rows, nil
}

func (r *CachedRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	created, err := r.inner.Create(ctx, product)
	if err != nil {
		return nil, err
	}
	key := r.cache.CatalogListKey()
	if err := r.cache.Del(ctx, key); err != nil {
		r.warn(ctx, key, "catalog cache invalidation failed", err)
	}
	return created, nil
}

func (r *CachedRepository) warn(ctx context.Context, key, msg string, err error) {
	if r.logg == nil {
		return
	}
	ctx = r.logg.WithFields(ctx, map[string]any{"cache_key": key, "error": err.Error()})
	r.logg.Warn(ctx, msg)
}
