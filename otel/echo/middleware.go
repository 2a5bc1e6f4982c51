package echo

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	reqctx "github.com/octabyte/bm-session/utils/context"
)

// Middleware returns an Echo middleware that instruments portal requests with
// OpenTelemetry and tags each span with the session it was served for.
func Middleware(serviceName string) echo.MiddlewareFunc {
	return MiddlewareWithConfig(serviceName, nil)
}

// MiddlewareWithConfig is Middleware with a skipper, e.g. for health checks.
func MiddlewareWithConfig(serviceName string, skipper func(c echo.Context) bool) echo.MiddlewareFunc {
	baseMiddleware := otelecho.Middleware(serviceName)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		// annotate must run before otelecho ends the span.
		handler := baseMiddleware(func(c echo.Context) error {
			err := next(c)
			annotate(c, err)
			return err
		})

		return func(c echo.Context) error {
			if skipper != nil && skipper(c) {
				return next(c)
			}
			return handler(c)
		}
	}
}

// annotate runs after the handler so the request context carries whatever the
// session middleware stored.
func annotate(c echo.Context, err error) {
	ctx := c.Request().Context()
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(
		attribute.String("http.route", c.Path()),
		attribute.String("http.method", c.Request().Method),
		attribute.Int("http.status_code", c.Response().Status),
	)

	if state := reqctx.GetStateFromContext(ctx); state != "" {
		span.SetAttributes(attribute.String("session.state", string(state)))
	}
	if user, ok := reqctx.GetUserFromContext(ctx); ok {
		span.SetAttributes(
			attribute.String("user.id", user.ID),
			attribute.String("user.role", user.Role.String()),
		)
	}
	if location := c.Response().Header().Get(echo.HeaderLocation); location != "" {
		span.SetAttributes(attribute.String("session.redirect", location))
	}

	if err != nil {
		span.SetAttributes(attribute.String("error.message", err.Error()))
	}
}
