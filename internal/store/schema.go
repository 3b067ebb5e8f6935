package store

import (
	"context"
	"fmt"
	"log"
)

// Table names. The first four are core: inserts into them propagate
// failures and their DDL must succeed at bootstrap. The rest are
// provisioned best-effort.
const (
	TableUserEvents        = "user_events"
	TableProductViewsDaily = "product_views_daily"
	TableSalesDaily        = "sales_daily"
	TableIncidentEvents    = "incident_events"
	TableLogisticsEvents   = "logistics_events"
	TablePaymentEvents     = "payment_events"
	TableAnalyticsEvents   = "analytics_events"
	TableIoTTelemetry      = "iot_telemetry"
)

const userEventsDDL = `
CREATE TABLE IF NOT EXISTS user_events (
    event_id   String,
    user_id    String,
    session_id String,
    event_type LowCardinality(String),
    event_data String,
    page_url   String,
    referrer   String,
    user_agent String,
    ip_address String,
    created_at DateTime
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(created_at)
ORDER BY (user_id, created_at)`

const productViewsDailyDDL = `
CREATE TABLE IF NOT EXISTS product_views_daily (
    date         Date,
    product_id   String,
    views        UInt64,
    unique_users UInt64
) ENGINE = SummingMergeTree()
PARTITION BY toYYYYMM(date)
ORDER BY (date, product_id)`

const salesDailyDDL = `
CREATE TABLE IF NOT EXISTS sales_daily (
    date           Date,
    product_id     String,
    category       LowCardinality(String),
    total_quantity UInt64,
    total_revenue  Float64,
    order_count    UInt64
) ENGINE = SummingMergeTree()
PARTITION BY toYYYYMM(date)
ORDER BY (date, product_id)`

const incidentEventsDDL = `
CREATE TABLE IF NOT EXISTS incident_events (
    incident_id  String,
    type         LowCardinality(String),
    severity     UInt8,
    region       String,
    location_lat Float64,
    location_lng Float64,
    title        String,
    created_at   DateTime
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(created_at)
ORDER BY (type, created_at)`

const logisticsEventsDDL = `
CREATE TABLE IF NOT EXISTS logistics_events (
    event_id     String,
    type         LowCardinality(String),
    order_id     String,
    location_lat Float64,
    location_lng Float64,
    created_at   DateTime
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(created_at)
ORDER BY (type, created_at)`

const paymentEventsDDL = `
CREATE TABLE IF NOT EXISTS payment_events (
    event_id   String,
    type       LowCardinality(String),
    order_id   String,
    amount     Float64,
    created_at DateTime
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(created_at)
ORDER BY (type, created_at)`

const analyticsEventsDDL = `
CREATE TABLE IF NOT EXISTS analytics_events (
    event_id   String,
    event_type LowCardinality(String),
    event_data String,
    created_at DateTime
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(created_at)
ORDER BY (event_type, created_at)`

const iotTelemetryDDL = `
CREATE TABLE IF NOT EXISTS iot_telemetry (
    device_id  String,
    type       LowCardinality(String),
    payload    String,
    created_at DateTime
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(created_at)
ORDER BY (device_id, created_at)`

var coreDDLs = map[string]string{
	TableUserEvents:        userEventsDDL,
	TableProductViewsDaily: productViewsDailyDDL,
	TableSalesDaily:        salesDailyDDL,
	TableIncidentEvents:    incidentEventsDDL,
}

var bestEffortDDLs = map[string]string{
	TableLogisticsEvents: logisticsEventsDDL,
	TablePaymentEvents:   paymentEventsDDL,
	TableAnalyticsEvents: analyticsEventsDDL,
	TableIoTTelemetry:    iotTelemetryDDL,
}

// Bootstrap creates every table with IF NOT EXISTS semantics. It is
// safe to run on every startup, including from concurrent instances.
// Core table failures abort; best-effort table failures only warn.
func (s *Store) Bootstrap(ctx context.Context) error {
	if s.conn == nil {
		return ErrNotConnected
	}
	for table, ddl := range coreDDLs {
		if err := s.conn.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("create %s: %w", table, err)
		}
	}
	for table, ddl := range bestEffortDDLs {
		if err := s.conn.Exec(ctx, ddl); err != nil {
			log.Printf("warning: could not create %s: %v", table, err)
		}
	}
	return nil
}
