package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"StockInsight/internal/model"
)

// RedisCache stores one JSON result per key with a native expiry.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps client. A non-positive ttl uses DefaultTTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func redisKey(symbol string, days int) string {
	return fmt.Sprintf("prediction:%s:%d", normalize(symbol), days)
}

func (c *RedisCache) Get(ctx context.Context, symbol string, days int) (*model.PredictionResult, bool, error) {
	data, err := c.client.Get(ctx, redisKey(symbol, days)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var res model.PredictionResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, false, fmt.Errorf("decode prediction: %w", err)
	}
	return &res, true, nil
}

func (c *RedisCache) Save(ctx context.Context, symbol string, days int, res *model.PredictionResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode prediction: %w", err)
	}
	if err := c.client.Set(ctx, redisKey(symbol, days), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) ClearSymbol(ctx context.Context, symbol string, days int) error {
	if err := c.client.Del(ctx, redisKey(symbol, days)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// ClearExpired is a no-op: Redis evicts expired keys itself.
func (c *RedisCache) ClearExpired(context.Context) (int64, error) { return 0, nil }

func (c *RedisCache) Close() error {
	return c.client.Close()
}
