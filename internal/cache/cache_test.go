package cache

import (
	"context"
	"testing"
	"time"

	"analyticsservice/internal/config"
)

// All tests run against an address nothing listens on: the contract is
// that an unreachable cache degrades to misses and no-ops.
func newDownCache() *Cache {
	return New(&config.Config{RedisAddr: "127.0.0.1:1"})
}

func TestGetDegradesToMiss(t *testing.T) {
	c := newDownCache()
	defer c.Close()

	if _, ok := c.Get(context.Background(), "analytics:dashboard"); ok {
		t.Error("unreachable cache must report a miss")
	}
}

func TestSetIsBestEffort(t *testing.T) {
	c := newDownCache()
	defer c.Close()

	// Must not panic or block beyond the client timeouts.
	c.Set(context.Background(), "analytics:dashboard", "{}", time.Minute)
}

func TestHealthyReportsDown(t *testing.T) {
	c := newDownCache()
	defer c.Close()

	if c.Healthy(context.Background()) {
		t.Error("unreachable cache must be unhealthy")
	}
}
