package store

import "time"

// Row models for the append-only event tables. Rows are written once
// by the consumer and only ever read back through aggregate scans, so
// duplicate delivery produces duplicate rows by design of the data
// model, not read-modify-write updates.

// UserEvent is one raw interaction from the user_events log.
type UserEvent struct {
	EventID   string    `ch:"event_id"`
	UserID    string    `ch:"user_id"`
	SessionID string    `ch:"session_id"`
	EventType string    `ch:"event_type"`
	EventData string    `ch:"event_data"`
	PageURL   string    `ch:"page_url"`
	Referrer  string    `ch:"referrer"`
	UserAgent string    `ch:"user_agent"`
	IPAddress string    `ch:"ip_address"`
	CreatedAt time.Time `ch:"created_at"`
}

// ProductViewDaily is a unit rollup row; the summing engine merges
// rows sharing (date, product_id) and reads always re-sum.
type ProductViewDaily struct {
	Date        time.Time `ch:"date"`
	ProductID   string    `ch:"product_id"`
	Views       uint64    `ch:"views"`
	UniqueUsers uint64    `ch:"unique_users"`
}

// SaleDaily is one rollup row per completed order line item.
type SaleDaily struct {
	Date          time.Time `ch:"date"`
	ProductID     string    `ch:"product_id"`
	Category      string    `ch:"category"`
	TotalQuantity uint64    `ch:"total_quantity"`
	TotalRevenue  float64   `ch:"total_revenue"`
	OrderCount    uint64    `ch:"order_count"`
}

// IncidentEvent is an operational/crisis event for the monitoring surface.
type IncidentEvent struct {
	IncidentID  string    `ch:"incident_id"`
	Type        string    `ch:"type"`
	Severity    uint8     `ch:"severity"`
	Region      string    `ch:"region"`
	LocationLat float64   `ch:"location_lat"`
	LocationLng float64   `ch:"location_lng"`
	Title       string    `ch:"title"`
	CreatedAt   time.Time `ch:"created_at"`
}

// LogisticsEvent lands in a best-effort table.
type LogisticsEvent struct {
	EventID     string    `ch:"event_id"`
	Type        string    `ch:"type"`
	OrderID     string    `ch:"order_id"`
	LocationLat float64   `ch:"location_lat"`
	LocationLng float64   `ch:"location_lng"`
	CreatedAt   time.Time `ch:"created_at"`
}

// PaymentEvent lands in a best-effort table.
type PaymentEvent struct {
	EventID   string    `ch:"event_id"`
	Type      string    `ch:"type"`
	OrderID   string    `ch:"order_id"`
	Amount    float64   `ch:"amount"`
	CreatedAt time.Time `ch:"created_at"`
}

// AnalyticsEvent lands in a best-effort table.
type AnalyticsEvent struct {
	EventID   string    `ch:"event_id"`
	EventType string    `ch:"event_type"`
	EventData string    `ch:"event_data"`
	CreatedAt time.Time `ch:"created_at"`
}

// IoTTelemetry lands in a best-effort table.
type IoTTelemetry struct {
	DeviceID  string    `ch:"device_id"`
	Type      string    `ch:"type"`
	Payload   string    `ch:"payload"`
	CreatedAt time.Time `ch:"created_at"`
}
