package consumer

import (
	"context"
	"errors"
	"testing"
	"time"

	"analyticsservice/internal/config"
	"analyticsservice/internal/store"
)

type insertCall struct {
	table string
	rows  []any
}

type fakeStore struct {
	strict     []insertCall
	bestEffort []insertCall
	strictErr  error
}

func (f *fakeStore) InsertStrict(_ context.Context, table string, rows ...any) error {
	if f.strictErr != nil {
		return f.strictErr
	}
	f.strict = append(f.strict, insertCall{table: table, rows: rows})
	return nil
}

func (f *fakeStore) InsertBestEffort(_ context.Context, table string, rows ...any) {
	f.bestEffort = append(f.bestEffort, insertCall{table: table, rows: rows})
}

func newTestRouter(fs *fakeStore) *Router {
	return New(&config.Config{KafkaBrokers: []string{"localhost:9092"}}, fs)
}

func TestProcessMessageEmptyBody(t *testing.T) {
	fs := &fakeStore{}
	r := newTestRouter(fs)

	r.processMessage(context.Background(), "user.events", nil)
	r.processMessage(context.Background(), "user.events", []byte{})

	if len(fs.strict)+len(fs.bestEffort) != 0 {
		t.Error("empty bodies must be skipped silently")
	}
}

func TestProcessMessageMalformedThenValid(t *testing.T) {
	fs := &fakeStore{}
	r := newTestRouter(fs)

	r.processMessage(context.Background(), "user.events", []byte("not json{"))
	if len(fs.strict) != 0 {
		t.Fatal("malformed message must be dropped")
	}

	r.processMessage(context.Background(), "user.events", []byte(`{"userId":"u1","type":"click"}`))
	if len(fs.strict) != 1 {
		t.Fatal("valid message after a malformed one must still be processed")
	}
}

func TestOrderCompletedExplodesLineItems(t *testing.T) {
	fs := &fakeStore{}
	r := newTestRouter(fs)

	body := []byte(`{"type":"order_completed","data":{"items":[{"productId":"P1","category":"grain","quantity":2,"price":10}]}}`)
	r.processMessage(context.Background(), "order.events", body)

	if len(fs.strict) != 1 {
		t.Fatalf("expected one strict insert, got %d", len(fs.strict))
	}
	call := fs.strict[0]
	if call.table != store.TableSalesDaily {
		t.Fatalf("expected insert into %s, got %s", store.TableSalesDaily, call.table)
	}
	if len(call.rows) != 1 {
		t.Fatalf("expected one row per line item, got %d", len(call.rows))
	}
	row, ok := call.rows[0].(*store.SaleDaily)
	if !ok {
		t.Fatalf("unexpected row type %T", call.rows[0])
	}
	if row.ProductID != "P1" || row.Category != "grain" {
		t.Errorf("unexpected product/category %q/%q", row.ProductID, row.Category)
	}
	if row.TotalQuantity != 2 || row.TotalRevenue != 20 || row.OrderCount != 1 {
		t.Errorf("unexpected rollup values: quantity=%d revenue=%v orders=%d",
			row.TotalQuantity, row.TotalRevenue, row.OrderCount)
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if !row.Date.Equal(today) {
		t.Errorf("expected date %s, got %s", today, row.Date)
	}
}

func TestOrderOtherSubtypeIgnored(t *testing.T) {
	fs := &fakeStore{}
	r := newTestRouter(fs)

	r.processMessage(context.Background(), "order.events", []byte(`{"type":"order_created","data":{"items":[{"productId":"P1","quantity":1,"price":5}]}}`))
	if len(fs.strict) != 0 {
		t.Error("non-completed order events must not write rollup rows")
	}
}

func TestTopicAliasEquivalence(t *testing.T) {
	body := []byte(`{"type":"order_completed","data":{"items":[{"productId":"P9","category":"dairy","quantity":3,"price":4}]}}`)

	canonical := &fakeStore{}
	r1 := newTestRouter(canonical)
	r1.processMessage(context.Background(), "order.events", body)

	legacy := &fakeStore{}
	r2 := newTestRouter(legacy)
	r2.processMessage(context.Background(), "order-events", body)

	if len(canonical.strict) != 1 || len(legacy.strict) != 1 {
		t.Fatalf("both spellings must insert: canonical=%d legacy=%d", len(canonical.strict), len(legacy.strict))
	}
	a := canonical.strict[0].rows[0].(*store.SaleDaily)
	b := legacy.strict[0].rows[0].(*store.SaleDaily)
	if a.ProductID != b.ProductID || a.TotalRevenue != b.TotalRevenue || a.TotalQuantity != b.TotalQuantity {
		t.Errorf("alias produced a different row shape: %+v vs %+v", a, b)
	}
}

func TestProductViewedEmitsUnitRow(t *testing.T) {
	fs := &fakeStore{}
	r := newTestRouter(fs)

	r.processMessage(context.Background(), "product-events", []byte(`{"type":"product_viewed","productId":"P5"}`))

	if len(fs.strict) != 1 {
		t.Fatalf("expected one strict insert, got %d", len(fs.strict))
	}
	row := fs.strict[0].rows[0].(*store.ProductViewDaily)
	if row.ProductID != "P5" || row.Views != 1 || row.UniqueUsers != 1 {
		t.Errorf("expected unit view row, got %+v", row)
	}
}

func TestUserEventDefaults(t *testing.T) {
	fs := &fakeStore{}
	r := newTestRouter(fs)

	before := time.Now().UTC()
	r.processMessage(context.Background(), "user-events", []byte(`{}`))

	if len(fs.strict) != 1 {
		t.Fatalf("expected one strict insert, got %d", len(fs.strict))
	}
	row := fs.strict[0].rows[0].(*store.UserEvent)
	if row.UserID != "anonymous" {
		t.Errorf("expected anonymous user, got %q", row.UserID)
	}
	if row.EventType != "unknown" {
		t.Errorf("expected unknown event type, got %q", row.EventType)
	}
	if row.EventID == "" {
		t.Error("missing event id must be generated")
	}
	if row.EventData != "{}" {
		t.Errorf("expected empty payload literal, got %q", row.EventData)
	}
	if row.CreatedAt.Before(before.Add(-time.Second)) {
		t.Errorf("missing timestamp must default to ingestion time, got %s", row.CreatedAt)
	}
}

func TestUserEventKeepsSourceTimestamp(t *testing.T) {
	fs := &fakeStore{}
	r := newTestRouter(fs)

	r.processMessage(context.Background(), "user.events",
		[]byte(`{"userId":"u1","type":"page_view","timestamp":"2026-08-01T12:00:00Z"}`))

	row := fs.strict[0].rows[0].(*store.UserEvent)
	want := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	if !row.CreatedAt.Equal(want) {
		t.Errorf("expected source timestamp %s, got %s", want, row.CreatedAt)
	}
}

func TestIncidentDefaults(t *testing.T) {
	fs := &fakeStore{}
	r := newTestRouter(fs)

	r.processMessage(context.Background(), "incident-events", []byte(`{"title":"flood warning"}`))

	if len(fs.strict) != 1 {
		t.Fatalf("expected one strict insert, got %d", len(fs.strict))
	}
	row := fs.strict[0].rows[0].(*store.IncidentEvent)
	if row.Severity != 0 {
		t.Errorf("expected severity 0, got %d", row.Severity)
	}
	if row.LocationLat != 0 || row.LocationLng != 0 {
		t.Errorf("expected 0,0 coordinates, got %v,%v", row.LocationLat, row.LocationLng)
	}
	if row.IncidentID == "" {
		t.Error("missing incident id must be generated")
	}
	if row.Title != "flood warning" {
		t.Errorf("unexpected title %q", row.Title)
	}
}

func TestGenericTopicsUseBestEffortPath(t *testing.T) {
	fs := &fakeStore{}
	r := newTestRouter(fs)

	cases := []struct {
		topic string
		body  string
		table string
	}{
		{"logistics.events", `{"type":"shipment_departed","orderId":"O1","location":[4.5,-1.2]}`, store.TableLogisticsEvents},
		{"payment.events", `{"type":"payment_captured","orderId":"O1","amount":99.5}`, store.TablePaymentEvents},
		{"analytics.events", `{"type":"funnel_step","data":{"step":2}}`, store.TableAnalyticsEvents},
		{"iot.telemetry", `{"deviceId":"sensor-7","type":"soil_moisture","payload":{"value":0.31}}`, store.TableIoTTelemetry},
	}
	for _, tc := range cases {
		r.processMessage(context.Background(), tc.topic, []byte(tc.body))
	}

	if len(fs.strict) != 0 {
		t.Errorf("generic topics must never use the strict path, got %d strict inserts", len(fs.strict))
	}
	if len(fs.bestEffort) != len(cases) {
		t.Fatalf("expected %d best-effort inserts, got %d", len(cases), len(fs.bestEffort))
	}
	for i, tc := range cases {
		if fs.bestEffort[i].table != tc.table {
			t.Errorf("topic %s wrote to %s, expected %s", tc.topic, fs.bestEffort[i].table, tc.table)
		}
	}
}

func TestStrictInsertFailureDoesNotPanicLoop(t *testing.T) {
	fs := &fakeStore{strictErr: errors.New("store down")}
	r := newTestRouter(fs)

	// Must log and drop, never panic or abort.
	r.processMessage(context.Background(), "user.events", []byte(`{"userId":"u1"}`))

	fs.strictErr = nil
	r.processMessage(context.Background(), "user.events", []byte(`{"userId":"u2"}`))
	if len(fs.strict) != 1 {
		t.Error("consumer must keep processing after an insert failure")
	}
}

func TestStartWithUnreachableBroker(t *testing.T) {
	fs := &fakeStore{}
	r := New(&config.Config{KafkaBrokers: []string{"127.0.0.1:1"}, KafkaGroupID: "test"}, fs)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	r.Start(ctx)

	if r.Connected() {
		t.Error("unreachable broker must leave the router disconnected")
	}
	if err := r.Close(); err != nil {
		t.Errorf("close after failed start: %v", err)
	}
}
