package consumer

import (
	"context"
	"errors"
	"io"
	"log"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/kafka-go"

	"analyticsservice/internal/config"
)

var messagesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "analytics",
		Subsystem: "consumer",
		Name:      "messages_total",
		Help:      "Messages received from the broker, by canonical topic and outcome.",
	},
	[]string{"topic", "result"},
)

// InitMetrics registers the consumer's metrics with the default registry.
func InitMetrics() {
	prometheus.MustRegister(messagesTotal)
}

// Inserter is the slice of the store the router needs.
type Inserter interface {
	InsertStrict(ctx context.Context, table string, rows ...any) error
	InsertBestEffort(ctx context.Context, table string, rows ...any)
}

// Router maintains the broker subscription and routes each message to
// its per-topic normalization handler.
type Router struct {
	cfg   *config.Config
	store Inserter

	reader    *kafka.Reader
	connected atomic.Bool
	done      chan struct{}
}

// New builds a router writing through the given store adapter.
func New(cfg *config.Config, st Inserter) *Router {
	return &Router{cfg: cfg, store: st, done: make(chan struct{})}
}

// Start probes the broker and, when reachable, launches the consume
// loop. An unreachable broker is a valid steady state: the process
// keeps serving with Connected() == false and events are only stored
// when published directly.
func (r *Router) Start(ctx context.Context) {
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(dialCtx, "tcp", r.cfg.KafkaBrokers[0])
	if err != nil {
		log.Printf("warning: kafka unreachable at %v: %v - running without a live subscription", r.cfg.KafkaBrokers, err)
		close(r.done)
		return
	}
	_ = conn.Close()

	r.reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:     r.cfg.KafkaBrokers,
		GroupID:     r.cfg.KafkaGroupID,
		GroupTopics: SubscribedTopics(),
		Dialer: &kafka.Dialer{
			Timeout:   5 * time.Second,
			DualStack: true,
		},
	})
	r.connected.Store(true)
	log.Printf("kafka consumer connected, group=%s topics=%d", r.cfg.KafkaGroupID, len(SubscribedTopics()))

	go r.run(ctx)
}

func (r *Router) run(ctx context.Context) {
	defer close(r.done)
	for {
		msg, err := r.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return
			}
			log.Printf("kafka fetch error: %v", err)
			r.connected.Store(false)
			return
		}

		r.processMessage(ctx, msg.Topic, msg.Value)

		if err := r.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.Printf("kafka commit error: %v", err)
		}
	}
}

// processMessage classifies one message and runs its handler. A single
// bad message never halts the loop: failures are logged, counted, and
// the offset is still committed (at-least-once, no in-process retries).
func (r *Router) processMessage(ctx context.Context, topicName string, body []byte) {
	if len(body) == 0 {
		return
	}

	topic, ok := ParseTopic(topicName)
	if !ok {
		messagesTotal.WithLabelValues(topicName, "unroutable").Inc()
		return
	}

	if err := handlers[topic](r, ctx, body); err != nil {
		log.Printf("dropping message on %s: %v", topicName, err)
		messagesTotal.WithLabelValues(topic.String(), "dropped").Inc()
		return
	}
	messagesTotal.WithLabelValues(topic.String(), "ok").Inc()
}

// Connected reports whether a live subscription exists, for health checks.
func (r *Router) Connected() bool {
	return r.connected.Load()
}

// Close stops fetching and releases the reader. Callers cancel the
// loop context first; store and cache are closed after the router so
// in-flight inserts still land.
func (r *Router) Close() error {
	r.connected.Store(false)
	if r.reader == nil {
		return nil
	}
	err := r.reader.Close()
	<-r.done
	return err
}
