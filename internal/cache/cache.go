// Package cache provides the redis-backed report cache. The cache is a
// presentation-layer optimization: every failure degrades to recomputing the
// report, never to wrong data.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReportCache stores serialized reports with a TTL.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to redis using the given URL and TTL for stored entries.
func New(redisURL string, ttl time.Duration) (*ReportCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &ReportCache{
		client: redis.NewClient(opt),
		ttl:    ttl,
	}, nil
}

// Get loads the entry under key into dest. Returns false when the key is
// absent or expired.
func (c *ReportCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode cached report: %w", err)
	}
	return true, nil
}

// Set stores value under key for the configured TTL.
func (c *ReportCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Close releases the redis client.
func (c *ReportCache) Close() error {
	return c.client.Close()
}
