package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"product-catalog/models"
)

const productCachePattern = "products:*"

// CachedProductRepository serves list queries from Redis and drops every
// cached list on write. Redis failures fall through to the wrapped store.
type CachedProductRepository struct {
	ProductRepository
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewCachedProductRepository(inner ProductRepository, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *CachedProductRepository {
	return &CachedProductRepository{
		ProductRepository: inner,
		rdb:               rdb,
		ttl:               ttl,
		log:               log.Named("product-cache"),
	}
}

func listCacheKey(newestFirst bool) string {
	if newestFirst {
		return "products:all:desc"
	}
	return "products:all:asc"
}

func categoryCacheKey(category string) string {
	return "products:category:" + category
}

func (r *CachedProductRepository) FindAll(ctx context.Context, newestFirst bool) ([]models.Product, error) {
	return r.cached(ctx, listCacheKey(newestFirst), func() ([]models.Product, error) {
		return r.ProductRepository.FindAll(ctx, newestFirst)
	})
}

func (r *CachedProductRepository) FindByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return r.cached(ctx, categoryCacheKey(category), func() ([]models.Product, error) {
		return r.ProductRepository.FindByCategory(ctx, category)
	})
}

func (r *CachedProductRepository) Insert(ctx context.Context, product *models.Product) error {
	if err := r.ProductRepository.Insert(ctx, product); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedProductRepository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	updated, err := r.ProductRepository.Update(ctx, product)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return updated, nil
}

func (r *CachedProductRepository) Delete(ctx context.Context, id string) (*models.Product, error) {
	deleted, err := r.ProductRepository.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return deleted, nil
}

func (r *CachedProductRepository) cached(ctx context.Context, key string, load func() ([]models.Product, error)) ([]models.Product, error) {
	raw, err := r.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var products []models.Product
		if jsonErr := json.Unmarshal(raw, &products); jsonErr == nil {
			return products, nil
		}
		r.log.Warn("Discarding unreadable cache entry", zap.String("key", key))
	} else if err != redis.Nil {
		r.log.Debug("Cache read failed", zap.String("key", key), zap.Error(err))
	}

	products, err := load()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(products); err == nil {
		if err := r.rdb.Set(ctx, key, data, r.ttl).Err(); err != nil {
			r.log.Debug("Cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return products, nil
}

func (r *CachedProductRepository) invalidate(ctx context.Context) {
	iter := r.rdb.Scan(ctx, 0, productCachePattern, 0).Iterator()
	for iter.Next(ctx) {
		r.rdb.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.log.Warn("Cache invalidation failed", zap.Error(err))
	}
}
