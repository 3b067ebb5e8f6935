package handlers

import (
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"

	"analyticsservice/internal/config"
)

// respondData writes a wrapped success payload.
func respondData(ctx *fasthttp.RequestCtx, data any) {
	ctx.SetContentType("application/json")
	body, _ := json.Marshal(map[string]any{"success": true, "data": data})
	ctx.SetBody(body)
}

// respondError writes a wrapped error payload with the given status.
func respondError(ctx *fasthttp.RequestCtx, code int, msg string) {
	ctx.SetStatusCode(code)
	ctx.SetContentType("application/json")
	body, _ := json.Marshal(map[string]any{"success": false, "error": msg})
	ctx.SetBody(body)
}

// serverError surfaces a query failure as a 500. Production mode hides
// the underlying message; development mode returns it.
func serverError(ctx *fasthttp.RequestCtx, cfg *config.Config, err error) {
	log.Printf("analytics query error: %v", err)
	msg := "internal server error"
	if !cfg.IsProduction() && err != nil {
		msg = err.Error()
	}
	respondError(ctx, fasthttp.StatusInternalServerError, msg)
}

// queryInt reads a positive integer query parameter, clamped to max.
func queryInt(ctx *fasthttp.RequestCtx, key string, def, max int) int {
	v := def
	if s := string(ctx.QueryArgs().Peek(key)); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			v = n
		}
	}
	if v > max {
		v = max
	}
	return v
}

// RequestLogger returns fasthttp middleware that logs method, path,
// status, duration and feeds the request duration histogram.
func RequestLogger(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		elapsed := time.Since(start)
		if httpDuration != nil {
			httpDuration.WithLabelValues(string(ctx.Path())).Observe(elapsed.Seconds())
		}
		log.Printf("%s %s -> %d (%s) ip=%s", ctx.Method(), ctx.Path(), ctx.Response.StatusCode(), elapsed, ctx.RemoteAddr())
	}
}
