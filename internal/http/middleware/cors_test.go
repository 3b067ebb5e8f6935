package middleware

import (
	"testing"

	"github.com/valyala/fasthttp"
)

func run(h fasthttp.RequestHandler, method, uri string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	h(ctx)
	return ctx
}

func TestCORSSetsOrigin(t *testing.T) {
	called := false
	h := CORS("https://dashboard.example")(func(ctx *fasthttp.RequestCtx) {
		called = true
	})

	ctx := run(h, fasthttp.MethodGet, "http://test/analytics/dashboard")
	if !called {
		t.Fatal("next handler must run for GET")
	}
	if got := string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")); got != "https://dashboard.example" {
		t.Errorf("unexpected allow-origin %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	called := false
	h := CORS("*")(func(ctx *fasthttp.RequestCtx) {
		called = true
	})

	ctx := run(h, fasthttp.MethodOptions, "http://test/analytics/dashboard")
	if called {
		t.Error("preflight must short-circuit")
	}
	if ctx.Response.StatusCode() != fasthttp.StatusNoContent {
		t.Errorf("expected 204, got %d", ctx.Response.StatusCode())
	}
}

func TestCORSDisabled(t *testing.T) {
	h := CORS("")(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
	})

	ctx := run(h, fasthttp.MethodGet, "http://test/health")
	if len(ctx.Response.Header.Peek("Access-Control-Allow-Origin")) != 0 {
		t.Error("no CORS headers expected when origin is empty")
	}
}
