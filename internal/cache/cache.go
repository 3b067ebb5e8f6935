package cache

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"analyticsservice/internal/config"
)

// Cache is a thin cache-aside wrapper around Redis. The cache being
// unreachable is never an error for callers: Get degrades to a miss
// and Set to a no-op, both with a log line, so requests fall back to
// computing from the store.
type Cache struct {
	rdb *redis.Client
}

// New builds the client. Redis connections are established lazily, so
// this never fails; Healthy reports actual reachability.
func New(cfg *config.Config) *Cache {
	return &Cache{
		rdb: redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		}),
	}
}

// Get returns the cached value and whether it was present.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("warning: cache get %s: %v", key, err)
		}
		return "", false
	}
	return val, true
}

// Set writes val under key with the given TTL, best-effort.
func (c *Cache) Set(ctx context.Context, key, val string, ttl time.Duration) {
	if err := c.rdb.Set(ctx, key, val, ttl).Err(); err != nil {
		log.Printf("warning: cache set %s: %v", key, err)
	}
}

// Healthy pings Redis with a short deadline.
func (c *Cache) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.rdb.Ping(ctx).Err() == nil
}

// Close releases the client's connection pool.
func (c *Cache) Close() error {
	return c.rdb.Close()
}
