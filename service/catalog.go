package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/loomline/catalog_end/models"
	"github.com/loomline/catalog_end/utils"
)

// ErrProductNotFound is returned when a product reference does not resolve.
var ErrProductNotFound = errors.New("product not found")

// CatalogGateway looks up catalog products for snapshotting names and
// validating units against the product's category.
type CatalogGateway interface {
	FindByID(ctx context.Context, productID string) (*models.Product, error)
}

// ProductCacheTTL bounds how long a cached product lookup stays fresh.
const ProductCacheTTL = 30 * time.Minute

// ProductCache is a redis-backed read cache for product lookups. Cache
// failures are logged and ignored; the cache never breaks the request path.
type ProductCache struct {
	client *redis.Client
}

// NewProductCache creates a ProductCache.
func NewProductCache(client *redis.Client) *ProductCache {
	return &ProductCache{client: client}
}

func productCacheKey(productID string) string {
	return "product:id:" + productID
}

// Get returns the cached product, or false on a miss.
func (c *ProductCache) Get(ctx context.Context, productID string) (*models.Product, bool) {
	raw, err := c.client.Get(ctx, productCacheKey(productID)).Result()
	if err != nil {
		if err != redis.Nil {
			utils.Logger.Warn().Err(err).Str("productId", productID).Msg("product cache get failed")
		}
		return nil, false
	}

	var product models.Product
	if err := json.Unmarshal([]byte(raw), &product); err != nil {
		utils.Logger.Warn().Err(err).Str("productId", productID).Msg("product cache decode failed")
		return nil, false
	}
	return &product, true
}

// Set caches a product lookup.
func (c *ProductCache) Set(ctx context.Context, product *models.Product) {
	data, err := json.Marshal(product)
	if err != nil {
		utils.Logger.Warn().Err(err).Msg("product cache encode failed")
		return
	}
	if err := c.client.Set(ctx, productCacheKey(product.ID.Hex()), data, ProductCacheTTL).Err(); err != nil {
		utils.Logger.Warn().Err(err).Str("productId", product.ID.Hex()).Msg("product cache set failed")
	}
}

// Invalidate drops a cached product.
func (c *ProductCache) Invalidate(ctx context.Context, productID string) {
	if err := c.client.Del(ctx, productCacheKey(productID)).Err(); err != nil {
		utils.Logger.Warn().Err(err).Str("productId", productID).Msg("product cache invalidate failed")
	}
}

// CachedCatalog fronts a CatalogGateway with a ProductCache.
type CachedCatalog struct {
	inner CatalogGateway
	cache *ProductCache
}

// NewCachedCatalog wraps a gateway with the cache.
func NewCachedCatalog(inner CatalogGateway, cache *ProductCache) *CachedCatalog {
	return &CachedCatalog{inner: inner, cache: cache}
}

// FindByID serves from the cache when possible, falling through to the
// backing gateway and populating the cache on a miss.
func (g *CachedCatalog) FindByID(ctx context.Context, productID string) (*models.Product, error) {
	if product, ok := g.cache.Get(ctx, productID); ok {
		return product, nil
	}

	product, err := g.inner.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	g.cache.Set(ctx, product)
	return product, nil
}
