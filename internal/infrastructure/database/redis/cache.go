// Package redis provides the cache backend used for holiday calendars and
// other derived read models.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/LexDocket/internal/config"
	"github.com/turtacn/LexDocket/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexDocket/pkg/errors"
)

// Cache is the redis-backed key/value store.  Values are JSON-serialized;
// concurrent loads of the same missing key are collapsed via singleflight.
type Cache struct {
	client     *goredis.Client
	prefix     string
	defaultTTL time.Duration
	group      singleflight.Group
	log        logging.Logger
}

// NewCache connects to redis and verifies the connection.
func NewCache(ctx context.Context, cfg config.RedisConfig, log logging.Logger) (*Cache, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "connect redis")
	}
	return &Cache{
		client:     client,
		prefix:     cfg.KeyPrefix,
		defaultTTL: cfg.DefaultTTL,
		log:        log.Named("redis"),
	}, nil
}

func (c *Cache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

// Get loads and decodes the value at key into dest.  The second return is
// false on a miss.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "cache get")
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, errors.Wrap(err, errors.ErrCodeSerialization, "decode cached value")
	}
	return true, nil
}

// Set encodes and stores the value.  ttl <= 0 uses the configured default.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode cache value")
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.Set(ctx, c.key(key), raw, c.jitterTTL(key, ttl)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache set")
	}
	return nil
}

// Delete removes the key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache delete")
	}
	return nil
}

// GetOrSet returns the cached value at key, loading and storing it through
// loader on a miss.  Concurrent misses on the same key run loader once.
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration,
	loader func(ctx context.Context) (interface{}, error)) error {

	hit, err := c.Get(ctx, key, dest)
	if err != nil {
		c.log.Warn("cache read failed, falling through to loader",
			logging.String("key", key), logging.Err(err))
	}
	if hit {
		return nil
	}

	raw, err, _ := c.group.Do(key, func() (interface{}, error) {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.Set(ctx, key, value, ttl); err != nil {
			c.log.Warn("cache write failed", logging.String("key", key), logging.Err(err))
		}
		return json.Marshal(value)
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(raw.([]byte), dest)
}

// jitterTTL spreads expirations by up to 10% so that per-year holiday sets
// cached at the same moment do not all expire together.
func (c *Cache) jitterTTL(key string, ttl time.Duration) time.Duration {
	if ttl < time.Minute {
		return ttl
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	spread := time.Duration(h.Sum32()%100) * ttl / 1000
	return ttl + spread
}

// HealthCheck verifies connectivity.
func (c *Cache) HealthCheck(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check: %w", err)
	}
	return nil
}

// Close releases the client.
func (c *Cache) Close() error {
	return c.client.Close()
}
