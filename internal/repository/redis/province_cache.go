package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Rrens/thai-travel-share/internal/domain"
)

const (
	provinceCacheKey        = "catalog:provinces"
	defaultProvinceCacheTTL = 10 * time.Minute
)

// ProvinceCache keeps the province catalog in Redis
type ProvinceCache struct {
	client *Client
	ttl    time.Duration
}

// NewProvinceCache creates a new province cache. A non-positive ttl selects the default.
func NewProvinceCache(client *Client, ttl time.Duration) *ProvinceCache {
	if ttl <= 0 {
		ttl = defaultProvinceCacheTTL
	}
	return &ProvinceCache{client: client, ttl: ttl}
}

// Get returns the cached catalog. A miss returns (nil, nil).
func (c *ProvinceCache) Get(ctx context.Context) ([]domain.Province, error) {
	data, err := c.client.rdb.Get(ctx, provinceCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read province cache: %w", err)
	}

	var provinces []domain.Province
	if err := json.Unmarshal(data, &provinces); err != nil {
		return nil, fmt.Errorf("failed to unmarshal provinces: %w", err)
	}

	return provinces, nil
}

// Set caches the catalog
func (c *ProvinceCache) Set(ctx context.Context, provinces []domain.Province) error {
	data, err := json.Marshal(provinces)
	if err != nil {
		return fmt.Errorf("failed to marshal provinces: %w", err)
	}

	return c.client.rdb.Set(ctx, provinceCacheKey, data, c.ttl).Err()
}

// Invalidate drops the cached catalog
func (c *ProvinceCache) Invalidate(ctx context.Context) error {
	return c.client.rdb.Del(ctx, provinceCacheKey).Err()
}
