package metrics

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("tenant_id", "acme"),
		attribute.String("actor_id", "user-1"),
		attribute.String("type", "user_login"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "tenant_id" && attrs[1].Key != "tenant_id" {
		t.Fatalf("expected tenant_id to be retained")
	}
	if attrs[0].Key != "type" && attrs[1].Key != "type" {
		t.Fatalf("expected type to be retained")
	}
}

func TestMetricsRecordWithNoopProvider(t *testing.T) {
	m, err := New(Config{ServiceName: "pulsetrail-test"}, noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := context.Background()
	m.RecordActivityWritten(ctx, "user_login")
	m.RecordFeedRead(ctx, "", 200, 5*time.Millisecond)
	m.RecordRateLimitAllowed(ctx, "acme", "create_activity")
	m.RecordRateLimitDenied(ctx, "acme", "create_activity", "tenant_bucket")
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordActivityWritten(context.Background(), "user_login")
	m.RecordFeedRead(context.Background(), "", 500, 0)
}
