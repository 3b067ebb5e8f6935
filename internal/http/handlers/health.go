package handlers

import (
	"context"
	"encoding/json"

	"github.com/valyala/fasthttp"
)

// Dependencies bundles the per-dependency health probes. Each probe is
// bounded by its client's own timeouts.
type Dependencies struct {
	Store  func(ctx context.Context) bool
	Cache  func(ctx context.Context) bool
	Broker func() bool
}

// Health reports 200 when every dependency is reachable and 503 with
// per-dependency down markers otherwise.
func Health(deps Dependencies) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		marks := map[string]string{
			"store":  mark(deps.Store(ctx)),
			"cache":  mark(deps.Cache(ctx)),
			"broker": mark(deps.Broker()),
		}

		status := "ok"
		code := fasthttp.StatusOK
		for _, m := range marks {
			if m == "down" {
				status = "degraded"
				code = fasthttp.StatusServiceUnavailable
				break
			}
		}

		ctx.SetStatusCode(code)
		ctx.SetContentType("application/json")
		body, _ := json.Marshal(map[string]any{"status": status, "dependencies": marks})
		ctx.SetBody(body)
	}
}

// Live is liveness only: always 200 while the process runs.
func Live() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	}
}

func mark(up bool) string {
	if up {
		return "up"
	}
	return "down"
}
