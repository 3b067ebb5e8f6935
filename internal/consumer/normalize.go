package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"analyticsservice/internal/store"
)

// handlerFunc normalizes one message body and writes the resulting
// rows. A returned error means the message is dropped, never that the
// consumer loop stops.
type handlerFunc func(*Router, context.Context, []byte) error

// handlers is the fixed dispatch table; every Topic has exactly one entry.
var handlers = map[Topic]handlerFunc{
	TopicUserEvents:      (*Router).handleUserEvent,
	TopicOrderEvents:     (*Router).handleOrderEvent,
	TopicLogisticsEvents: (*Router).handleLogisticsEvent,
	TopicPaymentEvents:   (*Router).handlePaymentEvent,
	TopicAnalyticsEvents: (*Router).handleAnalyticsEvent,
	TopicIoTTelemetry:    (*Router).handleIoTTelemetry,
	TopicProductEvents:   (*Router).handleProductEvent,
	TopicIncidentEvents:  (*Router).handleIncidentEvent,
}

// orDefault fills a missing optional field.
func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// eventTime parses a source timestamp, falling back to ingestion time.
func eventTime(s string) time.Time {
	if s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

// eventDay is the Date-column value for rollup rows.
func eventDay() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// rawJSON renders an opaque payload for a String column.
func rawJSON(m json.RawMessage) string {
	if len(m) == 0 {
		return "{}"
	}
	return string(m)
}

type userEventMsg struct {
	EventID   string          `json:"eventId"`
	UserID    string          `json:"userId"`
	SessionID string          `json:"sessionId"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	PageURL   string          `json:"pageUrl"`
	Referrer  string          `json:"referrer"`
	UserAgent string          `json:"userAgent"`
	IPAddress string          `json:"ipAddress"`
	Timestamp string          `json:"timestamp"`
}

func (r *Router) handleUserEvent(ctx context.Context, body []byte) error {
	var ev userEventMsg
	if err := json.Unmarshal(body, &ev); err != nil {
		return err
	}
	return r.store.InsertStrict(ctx, store.TableUserEvents, &store.UserEvent{
		EventID:   orDefault(ev.EventID, uuid.NewString()),
		UserID:    orDefault(ev.UserID, "anonymous"),
		SessionID: ev.SessionID,
		EventType: orDefault(ev.Type, "unknown"),
		EventData: rawJSON(ev.Data),
		PageURL:   ev.PageURL,
		Referrer:  ev.Referrer,
		UserAgent: ev.UserAgent,
		IPAddress: ev.IPAddress,
		CreatedAt: eventTime(ev.Timestamp),
	})
}

type orderItem struct {
	ProductID string  `json:"productId"`
	Category  string  `json:"category"`
	Quantity  uint64  `json:"quantity"`
	Price     float64 `json:"price"`
}

type orderEventMsg struct {
	Type string `json:"type"`
	Data struct {
		Items []orderItem `json:"items"`
	} `json:"data"`
}

// handleOrderEvent explodes a completed order into one sales_daily row
// per line item. Other order subtypes carry nothing the rollup needs.
func (r *Router) handleOrderEvent(ctx context.Context, body []byte) error {
	var ev orderEventMsg
	if err := json.Unmarshal(body, &ev); err != nil {
		return err
	}
	if ev.Type != "order_completed" {
		return nil
	}

	day := eventDay()
	rows := make([]any, 0, len(ev.Data.Items))
	for _, item := range ev.Data.Items {
		rows = append(rows, &store.SaleDaily{
			Date:          day,
			ProductID:     item.ProductID,
			Category:      orDefault(item.Category, "unknown"),
			TotalQuantity: item.Quantity,
			TotalRevenue:  item.Price * float64(item.Quantity),
			OrderCount:    1,
		})
	}
	return r.store.InsertStrict(ctx, store.TableSalesDaily, rows...)
}

type productEventMsg struct {
	Type      string `json:"type"`
	ProductID string `json:"productId"`
}

// handleProductEvent emits a unit view row; read-time summing (and the
// summing engine) do the aggregation, never read-modify-write here.
func (r *Router) handleProductEvent(ctx context.Context, body []byte) error {
	var ev productEventMsg
	if err := json.Unmarshal(body, &ev); err != nil {
		return err
	}
	if ev.Type != "product_viewed" {
		return nil
	}
	return r.store.InsertStrict(ctx, store.TableProductViewsDaily, &store.ProductViewDaily{
		Date:        eventDay(),
		ProductID:   ev.ProductID,
		Views:       1,
		UniqueUsers: 1,
	})
}

type incidentEventMsg struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Severity  int       `json:"severity"`
	Region    string    `json:"region"`
	Location  []float64 `json:"location"`
	Title     string    `json:"title"`
	Timestamp string    `json:"timestamp"`
}

func (r *Router) handleIncidentEvent(ctx context.Context, body []byte) error {
	var ev incidentEventMsg
	if err := json.Unmarshal(body, &ev); err != nil {
		return err
	}
	severity := uint8(0)
	if ev.Severity > 0 && ev.Severity <= 255 {
		severity = uint8(ev.Severity)
	}
	lat, lng := coords(ev.Location)
	return r.store.InsertStrict(ctx, store.TableIncidentEvents, &store.IncidentEvent{
		IncidentID:  orDefault(ev.ID, uuid.NewString()),
		Type:        orDefault(ev.Type, "unknown"),
		Severity:    severity,
		Region:      ev.Region,
		LocationLat: lat,
		LocationLng: lng,
		Title:       ev.Title,
		CreatedAt:   eventTime(ev.Timestamp),
	})
}

func coords(loc []float64) (lat, lng float64) {
	if len(loc) > 0 {
		lat = loc[0]
	}
	if len(loc) > 1 {
		lng = loc[1]
	}
	return lat, lng
}

type logisticsEventMsg struct {
	EventID   string    `json:"eventId"`
	Type      string    `json:"type"`
	OrderID   string    `json:"orderId"`
	Location  []float64 `json:"location"`
	Timestamp string    `json:"timestamp"`
}

func (r *Router) handleLogisticsEvent(ctx context.Context, body []byte) error {
	var ev logisticsEventMsg
	if err := json.Unmarshal(body, &ev); err != nil {
		return err
	}
	lat, lng := coords(ev.Location)
	r.store.InsertBestEffort(ctx, store.TableLogisticsEvents, &store.LogisticsEvent{
		EventID:     orDefault(ev.EventID, uuid.NewString()),
		Type:        orDefault(ev.Type, "unknown"),
		OrderID:     ev.OrderID,
		LocationLat: lat,
		LocationLng: lng,
		CreatedAt:   eventTime(ev.Timestamp),
	})
	return nil
}

type paymentEventMsg struct {
	EventID   string  `json:"eventId"`
	Type      string  `json:"type"`
	OrderID   string  `json:"orderId"`
	Amount    float64 `json:"amount"`
	Timestamp string  `json:"timestamp"`
}

func (r *Router) handlePaymentEvent(ctx context.Context, body []byte) error {
	var ev paymentEventMsg
	if err := json.Unmarshal(body, &ev); err != nil {
		return err
	}
	r.store.InsertBestEffort(ctx, store.TablePaymentEvents, &store.PaymentEvent{
		EventID:   orDefault(ev.EventID, uuid.NewString()),
		Type:      orDefault(ev.Type, "unknown"),
		OrderID:   ev.OrderID,
		Amount:    ev.Amount,
		CreatedAt: eventTime(ev.Timestamp),
	})
	return nil
}

type analyticsEventMsg struct {
	EventID   string          `json:"eventId"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
}

func (r *Router) handleAnalyticsEvent(ctx context.Context, body []byte) error {
	var ev analyticsEventMsg
	if err := json.Unmarshal(body, &ev); err != nil {
		return err
	}
	r.store.InsertBestEffort(ctx, store.TableAnalyticsEvents, &store.AnalyticsEvent{
		EventID:   orDefault(ev.EventID, uuid.NewString()),
		EventType: orDefault(ev.Type, "unknown"),
		EventData: rawJSON(ev.Data),
		CreatedAt: eventTime(ev.Timestamp),
	})
	return nil
}

type iotTelemetryMsg struct {
	DeviceID  string          `json:"deviceId"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp string          `json:"timestamp"`
}

func (r *Router) handleIoTTelemetry(ctx context.Context, body []byte) error {
	var ev iotTelemetryMsg
	if err := json.Unmarshal(body, &ev); err != nil {
		return err
	}
	r.store.InsertBestEffort(ctx, store.TableIoTTelemetry, &store.IoTTelemetry{
		DeviceID:  ev.DeviceID,
		Type:      orDefault(ev.Type, "unknown"),
		Payload:   rawJSON(ev.Payload),
		CreatedAt: eventTime(ev.Timestamp),
	})
	return nil
}
