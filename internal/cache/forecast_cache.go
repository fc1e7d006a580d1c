package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"news-pulse/internal/domain"

	"github.com/redis/go-redis/v9"
)

const forecastKey = "forecast:latest"

type KVClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// ForecastCache holds the most recent forecast for a short time so bursts
// of API and bot requests share one computation.
type ForecastCache struct {
	client KVClient
	ttl    time.Duration
}

func NewForecastCache(client KVClient, ttl time.Duration) *ForecastCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ForecastCache{client: client, ttl: ttl}
}

// Get returns nil without error on a miss.
func (c *ForecastCache) Get(ctx context.Context) (*domain.Forecast, error) {
	data, err := c.client.Get(ctx, forecastKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var f domain.Forecast
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *ForecastCache) Set(ctx context.Context, f domain.Forecast) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, forecastKey, data, c.ttl).Err()
}

func (c *ForecastCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, forecastKey).Err()
}
