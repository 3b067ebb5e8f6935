package store

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Overview is the composed dashboard object. Every field comes from an
// independent aggregate over the recent window.
type Overview struct {
	Revenue     float64 `json:"revenue"`
	Orders      uint64  `json:"orders"`
	Views       uint64  `json:"views"`
	UniqueUsers uint64  `json:"uniqueUsers"`
	Period      string  `json:"period"`
}

type ProductSales struct {
	ProductID string  `ch:"product_id" json:"product_id"`
	Quantity  uint64  `ch:"quantity" json:"quantity"`
	Revenue   float64 `ch:"revenue" json:"revenue"`
}

type TrendPoint struct {
	Period  string  `ch:"period" json:"period"`
	Revenue float64 `ch:"revenue" json:"revenue"`
	Orders  uint64  `ch:"orders" json:"orders"`
}

type ActivityRow struct {
	Date        string `ch:"date" json:"date"`
	EventType   string `ch:"event_type" json:"event_type"`
	Count       uint64 `ch:"count" json:"count"`
	UniqueUsers uint64 `ch:"unique_users" json:"unique_users"`
}

type CategorySales struct {
	Category string  `ch:"category" json:"category"`
	Quantity uint64  `ch:"quantity" json:"quantity"`
	Revenue  float64 `ch:"revenue" json:"revenue"`
	Orders   uint64  `ch:"orders" json:"orders"`
}

func cutoff(days int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -days)
}

// DashboardOverview computes the four dashboard aggregates in parallel
// over the lookback window. Every read re-sums rollup rows, so
// unmerged duplicates from the summing engine never skew results
// beyond the at-least-once double-count the data model permits.
func (s *Store) DashboardOverview(ctx context.Context, days int) (*Overview, error) {
	if s.conn == nil {
		return nil, ErrNotConnected
	}

	since := cutoff(days)
	ov := &Overview{Period: fmt.Sprintf("%dd", days)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.conn.QueryRow(gctx,
			"SELECT sum(total_revenue) FROM sales_daily WHERE date >= ?",
			since).Scan(&ov.Revenue)
	})
	g.Go(func() error {
		return s.conn.QueryRow(gctx,
			"SELECT sum(order_count) FROM sales_daily WHERE date >= ?",
			since).Scan(&ov.Orders)
	})
	g.Go(func() error {
		return s.conn.QueryRow(gctx,
			"SELECT sum(views) FROM product_views_daily WHERE date >= ?",
			since).Scan(&ov.Views)
	})
	g.Go(func() error {
		return s.conn.QueryRow(gctx,
			"SELECT uniqExact(user_id) FROM user_events WHERE created_at >= ?",
			since).Scan(&ov.UniqueUsers)
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard overview: %w", err)
	}
	return ov, nil
}

// TopProducts groups sales by product over the window, ordered by
// revenue descending. The caller clamps limit before it gets here.
func (s *Store) TopProducts(ctx context.Context, limit, days int) ([]ProductSales, error) {
	if s.conn == nil {
		return nil, ErrNotConnected
	}
	var rows []ProductSales
	err := s.conn.Select(ctx, &rows, `
SELECT product_id,
       sum(total_quantity) AS quantity,
       sum(total_revenue)  AS revenue
FROM sales_daily
WHERE date >= ?
GROUP BY product_id
ORDER BY revenue DESC
LIMIT ?`, cutoff(days), limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	return rows, nil
}

// SalesTrends sums revenue and orders per day or per ISO week
// (Monday-start; the period label is the week's first day).
func (s *Store) SalesTrends(ctx context.Context, days int, groupBy string) ([]TrendPoint, error) {
	if s.conn == nil {
		return nil, ErrNotConnected
	}
	periodExpr := "toString(date)"
	if groupBy == "week" {
		periodExpr = "toString(toStartOfWeek(date, 1))"
	}
	var rows []TrendPoint
	err := s.conn.Select(ctx, &rows, `
SELECT `+periodExpr+` AS period,
       sum(total_revenue) AS revenue,
       sum(order_count)   AS orders
FROM sales_daily
WHERE date >= ?
GROUP BY period
ORDER BY period`, cutoff(days))
	if err != nil {
		return nil, fmt.Errorf("sales trends: %w", err)
	}
	return rows, nil
}

// UserActivity groups raw user events by day and event type.
func (s *Store) UserActivity(ctx context.Context, days int) ([]ActivityRow, error) {
	if s.conn == nil {
		return nil, ErrNotConnected
	}
	var rows []ActivityRow
	err := s.conn.Select(ctx, &rows, `
SELECT toString(toDate(created_at)) AS date,
       event_type,
       count()             AS count,
       uniqExact(user_id)  AS unique_users
FROM user_events
WHERE created_at >= ?
GROUP BY date, event_type
ORDER BY date, count DESC`, cutoff(days))
	if err != nil {
		return nil, fmt.Errorf("user activity: %w", err)
	}
	return rows, nil
}

// CategoryPerformance sums quantity/revenue/orders per category.
func (s *Store) CategoryPerformance(ctx context.Context, days int) ([]CategorySales, error) {
	if s.conn == nil {
		return nil, ErrNotConnected
	}
	var rows []CategorySales
	err := s.conn.Select(ctx, &rows, `
SELECT category,
       sum(total_quantity) AS quantity,
       sum(total_revenue)  AS revenue,
       sum(order_count)    AS orders
FROM sales_daily
WHERE date >= ?
GROUP BY category
ORDER BY revenue DESC`, cutoff(days))
	if err != nil {
		return nil, fmt.Errorf("category performance: %w", err)
	}
	return rows, nil
}
