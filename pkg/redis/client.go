// Package redis holds the thin connection wrapper backing the auth rate
// limiter. The wrapper is optional at runtime; a nil *Client is a valid
// receiver and every call on it reports the client as uninitialized, which
// lets callers skip the "is redis configured" branching.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/closetly/closetly-backend/pkg/config"
)

var errNotInitialized = errors.New("redis client not initialized")

// Client wraps a go-redis connection with the counter helpers the API needs.
type Client struct {
	conn *redis.Client
}

// New connects to Redis and verifies the connection with a ping. Either a
// redis:// URL or a plain address must be configured; the URL wins when both
// are set.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	var opts *redis.Options
	switch {
	case cfg.URL != "":
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	case cfg.Address != "":
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	default:
		return nil, errors.New("redis url or address is required")
	}

	// URL-derived options keep whatever the URL encoded; config fills the gaps.
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	conn := redis.NewClient(opts)
	if err := conn.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Client{conn: conn}, nil
}

// IncrWithTTL increments the counter at key and stamps the TTL when the
// increment created the key. Counters therefore expire window-aligned from
// their first hit, which is what a fixed-window rate limit wants.
func (c *Client) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if c == nil || c.conn == nil {
		return 0, errNotInitialized
	}
	count, err := c.conn.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 && ttl > 0 {
		if err := c.conn.Expire(ctx, key, ttl).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// Ping verifies the redis connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.conn == nil {
		return errNotInitialized
	}
	return c.conn.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
