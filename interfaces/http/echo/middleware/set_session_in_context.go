package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/octabyte/bm-session/enums"
	"github.com/octabyte/bm-session/session"
	reqctx "github.com/octabyte/bm-session/utils/context"
)

// SessionReader is the read side of session.Manager.
type SessionReader interface {
	Status() session.Status
}

// SetSessionInContext snapshots the session once per request so every later
// middleware and handler sees the same state.
func SetSessionInContext(sessions SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			status := sessions.Status()
			c.Set(RequestSessionKey, status)

			ctx := reqctx.WithState(c.Request().Context(), status.State)
			if status.IsAuthenticated() {
				ctx = reqctx.WithUser(ctx, *status.User)
			}
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetStatus returns the status set by SetSessionInContext. Without it the
// request is treated as still initializing.
func GetStatus(c echo.Context) session.Status {
	if status, ok := c.Get(RequestSessionKey).(session.Status); ok {
		return status
	}
	return session.Status{State: enums.SessionStateInitializing}
}
