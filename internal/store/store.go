package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"analyticsservice/internal/config"
)

// ErrNotConnected is returned by strict operations when the adapter
// never established a connection (degraded startup).
var ErrNotConnected = errors.New("store: not connected")

// Store is the single point of contact with ClickHouse. It owns the
// connection, schema bootstrap, and the typed insert/query primitives
// used by the consumer and the analytics endpoints.
type Store struct {
	conn driver.Conn
}

// Connect opens a native-protocol ClickHouse connection and runs the
// schema bootstrap. Credentials are only attached when ClickHouseAuth
// is enabled; presenting them to an auth-disabled server is rejected
// on some install bases.
func Connect(cfg *config.Config) (*Store, error) {
	opts := &clickhouse.Options{
		Addr:        []string{cfg.ClickHouseAddr},
		Auth:        clickhouse.Auth{Database: cfg.ClickHouseDB},
		DialTimeout: 5 * time.Second,
		ReadTimeout: 30 * time.Second,
	}
	if cfg.ClickHouseAuth {
		opts.Auth.Username = cfg.ClickHouseUser
		opts.Auth.Password = cfg.ClickHousePassword
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.Bootstrap(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

// Disconnected returns an adapter that never connected. Every strict
// operation fails with ErrNotConnected and Healthy reports false, so
// health endpoints degrade instead of the process crashing.
func Disconnected() *Store {
	return &Store{}
}

// InsertStrict batch-inserts rows into table and propagates any
// failure. Inserting zero rows is a no-op, not an error.
func (s *Store) InsertStrict(ctx context.Context, table string, rows ...any) error {
	if len(rows) == 0 {
		return nil
	}
	if s.conn == nil {
		return ErrNotConnected
	}
	batch, err := s.conn.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return fmt.Errorf("prepare batch for %s: %w", table, err)
	}
	for _, row := range rows {
		if err := batch.AppendStruct(row); err != nil {
			return fmt.Errorf("append row for %s: %w", table, err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

// InsertBestEffort batch-inserts rows into one of the best-effort
// tables. Those tables are provisioned opportunistically, so any
// failure (including the table not existing) is logged and swallowed.
func (s *Store) InsertBestEffort(ctx context.Context, table string, rows ...any) {
	if err := s.InsertStrict(ctx, table, rows...); err != nil {
		log.Printf("warning: best-effort insert into %s failed: %v", table, err)
	}
}

// Healthy performs a trivial round-trip query. It never returns an
// error; any failure means unhealthy.
func (s *Store) Healthy(ctx context.Context) bool {
	if s.conn == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var one uint8
	if err := s.conn.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return false
	}
	return true
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
