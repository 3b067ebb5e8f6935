package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valyala/fasthttp"

	"analyticsservice/internal/config"
	"analyticsservice/internal/store"
)

const (
	dashboardCacheKey = "analytics:dashboard"

	maxDays  = 365
	maxLimit = 50
)

// Analytics is the slice of the store the read endpoints need.
type Analytics interface {
	DashboardOverview(ctx context.Context, days int) (*store.Overview, error)
	TopProducts(ctx context.Context, limit, days int) ([]store.ProductSales, error)
	SalesTrends(ctx context.Context, days int, groupBy string) ([]store.TrendPoint, error)
	UserActivity(ctx context.Context, days int) ([]store.ActivityRow, error)
	CategoryPerformance(ctx context.Context, days int) ([]store.CategorySales, error)
}

// KV is the cache-aside surface. Implementations degrade to misses and
// no-ops when the cache is down.
type KV interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, val string, ttl time.Duration)
}

type dashboardPayload struct {
	store.Overview
	Cached bool `json:"cached"`
}

// Dashboard serves the composed overview with a cache-aside layer: a
// hit within the TTL skips all store queries and is annotated as
// cached, a miss computes and writes through.
func Dashboard(cfg *config.Config, analytics Analytics, kv KV) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if raw, ok := kv.Get(ctx, dashboardCacheKey); ok {
			var ov store.Overview
			if err := json.Unmarshal([]byte(raw), &ov); err == nil {
				respondData(ctx, dashboardPayload{Overview: ov, Cached: true})
				return
			}
			// A corrupt entry is treated as a miss and overwritten below.
		}

		ov, err := analytics.DashboardOverview(ctx, 30)
		if err != nil {
			serverError(ctx, cfg, err)
			return
		}

		if raw, err := json.Marshal(ov); err == nil {
			kv.Set(ctx, dashboardCacheKey, string(raw), cfg.CacheTTL)
		}
		respondData(ctx, dashboardPayload{Overview: *ov, Cached: false})
	}
}

// TopProducts ranks products by revenue over the window.
func TopProducts(cfg *config.Config, analytics Analytics) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		limit := queryInt(ctx, "limit", 10, maxLimit)
		days := queryInt(ctx, "days", 30, maxDays)

		rows, err := analytics.TopProducts(ctx, limit, days)
		if err != nil {
			serverError(ctx, cfg, err)
			return
		}
		respondData(ctx, rows)
	}
}

// SalesTrends returns chronological revenue/order sums per day or ISO week.
func SalesTrends(cfg *config.Config, analytics Analytics) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		days := queryInt(ctx, "days", 30, maxDays)
		groupBy := string(ctx.QueryArgs().Peek("groupBy"))
		if groupBy != "week" {
			groupBy = "day"
		}

		rows, err := analytics.SalesTrends(ctx, days, groupBy)
		if err != nil {
			serverError(ctx, cfg, err)
			return
		}
		respondData(ctx, rows)
	}
}

// UserActivity returns per-day, per-event-type counts with distinct users.
func UserActivity(cfg *config.Config, analytics Analytics) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		days := queryInt(ctx, "days", 7, maxDays)

		rows, err := analytics.UserActivity(ctx, days)
		if err != nil {
			serverError(ctx, cfg, err)
			return
		}
		respondData(ctx, rows)
	}
}

// CategoryPerformance sums sales per category, highest revenue first.
func CategoryPerformance(cfg *config.Config, analytics Analytics) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		days := queryInt(ctx, "days", 30, maxDays)

		rows, err := analytics.CategoryPerformance(ctx, days)
		if err != nil {
			serverError(ctx, cfg, err)
			return
		}
		respondData(ctx, rows)
	}
}
