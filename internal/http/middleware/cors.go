package middleware

import (
	"github.com/valyala/fasthttp"
)

// CORS allows the configured dashboard origin to call the API. An
// empty origin disables the middleware entirely.
func CORS(origin string) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if origin == "" {
		return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
			return next
		}
	}

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			ctx.Response.Header.Set("Access-Control-Allow-Origin", origin)
			ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			ctx.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type")

			if string(ctx.Method()) == fasthttp.MethodOptions {
				ctx.SetStatusCode(fasthttp.StatusNoContent)
				return
			}
			next(ctx)
		}
	}
}
