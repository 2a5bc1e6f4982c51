package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter metric.Meter

	// Auth service calls
	authRequestsTotal   metric.Int64Counter
	authRequestDuration metric.Float64Histogram

	// Session lifecycle
	sessionEventsTotal   metric.Int64Counter
	sessionAuthenticated metric.Int64UpDownCounter
)

// Init creates the instruments on the global meter provider. Recording before
// Init is a no-op.
func Init(serviceName string) error {
	return InitWithProvider(otel.GetMeterProvider(), serviceName)
}

func InitWithProvider(provider metric.MeterProvider, serviceName string) error {
	meter = provider.Meter(serviceName)

	var err error

	authRequestsTotal, err = meter.Int64Counter(
		"auth_requests_total",
		metric.WithDescription("Total number of calls to the auth service"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create auth_requests_total counter: %w", err)
	}

	authRequestDuration, err = meter.Float64Histogram(
		"auth_request_duration_seconds",
		metric.WithDescription("Auth service call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create auth_request_duration_seconds histogram: %w", err)
	}

	sessionEventsTotal, err = meter.Int64Counter(
		"session_events_total",
		metric.WithDescription("Session lifecycle transitions"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create session_events_total counter: %w", err)
	}

	sessionAuthenticated, err = meter.Int64UpDownCounter(
		"session_authenticated",
		metric.WithDescription("1 while a session is active, 0 otherwise"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create session_authenticated gauge: %w", err)
	}

	return nil
}

// RecordAuthRequest records one call to the auth service. outcome is one of
// "ok", "unauthorized", "rejected", "transport".
func RecordAuthRequest(ctx context.Context, operation, outcome string, statusCode int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("auth.operation", operation),
		attribute.String("auth.outcome", outcome),
		attribute.Int("http.status_code", statusCode),
	)

	if authRequestsTotal != nil {
		authRequestsTotal.Add(ctx, 1, attrs)
	}
	if authRequestDuration != nil {
		authRequestDuration.Record(ctx, duration.Seconds(), attrs)
	}
}

// RecordSessionEvent counts a lifecycle event and tracks whether a session
// became active (delta +1) or ended (delta -1).
func RecordSessionEvent(ctx context.Context, event string, delta int64) {
	if sessionEventsTotal != nil {
		sessionEventsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("session.event", event)))
	}
	if sessionAuthenticated != nil && delta != 0 {
		sessionAuthenticated.Add(ctx, delta)
	}
}
