// Package cache wraps Redis for the public page cache. A disabled cache is
// a valid value: writes succeed silently and reads always miss.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const operationTimeout = 3 * time.Second

var ErrMiss = errors.New("cache miss")

// Pages is the process-wide page cache, disabled until Init succeeds.
var Pages = Disabled()

// Init replaces Pages with a cache built from the given settings.
func Init(addr string, enabled bool, ttl time.Duration) error {
	c, err := New(addr, enabled, ttl)
	if err != nil {
		return err
	}
	Pages = c
	return nil
}

type Cache struct {
	client  *redis.Client
	enabled bool
	ttl     time.Duration
}

// Disabled returns a cache that never stores anything.
func Disabled() *Cache {
	return &Cache{}
}

func New(addr string, enabled bool, ttl time.Duration) (*Cache, error) {
	if !enabled {
		return Disabled(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  operationTimeout,
		WriteTimeout: operationTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Cache{client: client, enabled: true, ttl: ttl}, nil
}

func (c *Cache) Enabled() bool { return c.enabled }

func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	if !c.enabled {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Get decodes the cached value into dest. It returns ErrMiss when the key is
// absent or the cache is disabled.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	if !c.enabled {
		return ErrMiss
	}
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.enabled || len(keys) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()
	return c.client.Del(ctx, keys...).Err()
}

func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	if !c.enabled {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *Cache) Close() error {
	if !c.enabled {
		return nil
	}
	return c.client.Close()
}

// PublicPageKey is where the public JSON of a page is cached.
func PublicPageKey(slug string) string {
	return "landing:public:" + slug
}

// InvalidatePage drops the public copy of a page after it changes.
func (c *Cache) InvalidatePage(ctx context.Context, slug string) error {
	return c.Delete(ctx, PublicPageKey(slug))
}
