package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octabyte/bm-session/enums"
	"github.com/octabyte/bm-session/gate"
	"github.com/octabyte/bm-session/models"
)

// RequireRole gates a route on the session set by SetSessionInContext.
// enums.RoleNone admits any active session.
func RequireRole(role enums.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := gate.Decide(GetStatus(c), role)
			if d.Outcome == gate.Render {
				return next(c)
			}
			return Deny(c, d)
		}
	}
}

// Deny writes the response for any decision other than gate.Render.
func Deny(c echo.Context, d gate.Decision) error {
	if d.Outcome == gate.Loading {
		c.Response().Header().Set(RetryAfterHeader, "1")
		return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Message: msgLoading})
	}
	return c.Redirect(http.StatusSeeOther, d.Location)
}
