package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/valyala/fasthttp"
)

func up(context.Context) bool   { return true }
func down(context.Context) bool { return false }

type healthBody struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}

func TestHealthAllUp(t *testing.T) {
	h := Health(Dependencies{Store: up, Cache: up, Broker: func() bool { return true }})
	ctx := doGet(h, "http://test/health")

	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("expected 200, got %d", ctx.Response.StatusCode())
	}
	var body healthBody
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("expected ok status, got %q", body.Status)
	}
	for dep, m := range body.Dependencies {
		if m != "up" {
			t.Errorf("dependency %s should be up, got %q", dep, m)
		}
	}
}

func TestHealthBrokerDown(t *testing.T) {
	h := Health(Dependencies{Store: up, Cache: up, Broker: func() bool { return false }})
	ctx := doGet(h, "http://test/health")

	if ctx.Response.StatusCode() != fasthttp.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", ctx.Response.StatusCode())
	}
	var body healthBody
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body.Status != "degraded" {
		t.Errorf("expected degraded status, got %q", body.Status)
	}
	if body.Dependencies["broker"] != "down" {
		t.Errorf("broker must be marked down, got %q", body.Dependencies["broker"])
	}
	if body.Dependencies["store"] != "up" {
		t.Errorf("store must stay up, got %q", body.Dependencies["store"])
	}
}

func TestHealthStoreDown(t *testing.T) {
	h := Health(Dependencies{Store: down, Cache: up, Broker: func() bool { return true }})
	ctx := doGet(h, "http://test/health")

	if ctx.Response.StatusCode() != fasthttp.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", ctx.Response.StatusCode())
	}
}

func TestLiveAlwaysOK(t *testing.T) {
	ctx := doGet(Live(), "http://test/live")
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Errorf("liveness must always be 200, got %d", ctx.Response.StatusCode())
	}
}
