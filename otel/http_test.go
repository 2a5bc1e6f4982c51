package otel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func setupTestTracer() func() {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func() {
		_ = tp.Shutdown(context.Background())
	}
}

func TestWithTraceHeaders(t *testing.T) {
	cleanup := setupTestTracer()
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Received-Traceparent", r.Header.Get("traceparent"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, span := otel.Tracer("test-service").Start(context.Background(), "test-operation")
	defer span.End()

	client := resty.New().SetBaseURL(server.URL).OnBeforeRequest(WithTraceHeaders)

	resp, err := client.R().SetContext(ctx).Get("/auth/profile")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Contains(t, resp.Header().Get("X-Received-Traceparent"), span.SpanContext().TraceID().String())
}

func TestStartHTTPSpan(t *testing.T) {
	cleanup := setupTestTracer()
	defer cleanup()

	spanCtx, finish := StartHTTPSpan(context.Background(), "bm-session", "auth", "login", http.MethodPost, "http://localhost:3001", "/auth/login")
	assert.True(t, trace.SpanFromContext(spanCtx).SpanContext().IsValid())

	assert.NotPanics(t, func() { finish(http.StatusOK, nil) })
}

func TestStartHTTPSpanWithError(t *testing.T) {
	cleanup := setupTestTracer()
	defer cleanup()

	spanCtx, finish := StartHTTPSpan(context.Background(), "bm-session", "auth", "profile", http.MethodGet, "http://localhost:3001", "/auth/profile")
	assert.True(t, trace.SpanFromContext(spanCtx).SpanContext().IsValid())

	assert.NotPanics(t, func() { finish(0, assert.AnError) })
}
