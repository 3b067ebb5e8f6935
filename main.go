package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fasthttp/router"
	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"

	"analyticsservice/internal/cache"
	"analyticsservice/internal/config"
	"analyticsservice/internal/consumer"
	"analyticsservice/internal/http/handlers"
	appmw "analyticsservice/internal/http/middleware"
	"analyticsservice/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	handlers.InitPrometheusMetrics()
	consumer.InitMetrics()

	// A failed store connection degrades the process instead of
	// killing it; /health reports the store as down and process
	// supervision handles restarts.
	st, err := store.Connect(cfg)
	if err != nil {
		log.Printf("warning: clickhouse unavailable: %v - starting degraded", err)
		st = store.Disconnected()
	}

	kv := cache.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ev := consumer.New(cfg, st)
	ev.Start(ctx)

	r := router.New()

	r.GET("/health", handlers.Health(handlers.Dependencies{
		Store:  st.Healthy,
		Cache:  kv.Healthy,
		Broker: ev.Connected,
	}))
	r.GET("/live", handlers.Live())
	r.GET("/metrics", handlers.MetricsHandler())

	r.GET("/analytics/dashboard", handlers.Dashboard(cfg, st, kv))
	r.GET("/analytics/products/top", handlers.TopProducts(cfg, st))
	r.GET("/analytics/sales/trends", handlers.SalesTrends(cfg, st))
	r.GET("/analytics/users/activity", handlers.UserActivity(cfg, st))
	r.GET("/analytics/categories", handlers.CategoryPerformance(cfg, st))

	handler := handlers.RequestLogger(appmw.CORS(cfg.CORSOrigin)(r.Handler))
	srv := &fasthttp.Server{Handler: handler}

	go func() {
		log.Printf("analytics service listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(cfg.ListenAddr); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")

	// Stop pulling new messages before the server, and close the
	// store and cache last so in-flight inserts still land.
	if err := ev.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if err := st.Close(); err != nil {
		log.Printf("clickhouse close error: %v", err)
	}
	if err := kv.Close(); err != nil {
		log.Printf("redis close error: %v", err)
	}
}
