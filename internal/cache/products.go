// Package cache holds the short-TTL product snapshot cache that sits in
// front of the catalog repository. Listings are read far more often than
// the catalog changes; a miss or a cache outage falls through to postgres.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"time"

	"nutristore/internal/domain"

	"github.com/go-redis/redis/v8"
)

const productsKey = "catalog:products"

type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

func NewProductCache(client *redis.Client, ttl time.Duration, logger *log.Logger) *ProductCache {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &ProductCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached product list and whether it was present. Cache
// errors are logged and reported as misses, never propagated.
func (c *ProductCache) Get(ctx context.Context) ([]domain.Product, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, productsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Printf("product cache: get error=%v", err)
		}
		return nil, false
	}
	var products []domain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		c.logger.Printf("product cache: decode error=%v", err)
		return nil, false
	}
	return products, true
}

// Set stores the product list under the configured TTL.
func (c *ProductCache) Set(ctx context.Context, products []domain.Product) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(products)
	if err != nil {
		c.logger.Printf("product cache: encode error=%v", err)
		return
	}
	if err := c.client.Set(ctx, productsKey, raw, c.ttl).Err(); err != nil {
		c.logger.Printf("product cache: set error=%v", err)
	}
}

// Invalidate drops the cached list, used after writes that change catalog
// data (review aggregates, imports).
func (c *ProductCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, productsKey).Err(); err != nil {
		c.logger.Printf("product cache: invalidate error=%v", err)
	}
}
