// Package views serves the portal pages. Every page is a JSON document
// describing what to show; session decisions come from the gate.
package views

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octabyte/bm-session/authclient"
	"github.com/octabyte/bm-session/enums"
	"github.com/octabyte/bm-session/gate"
	"github.com/octabyte/bm-session/interfaces/http/echo/middleware"
	"github.com/octabyte/bm-session/models"
	otellogger "github.com/octabyte/bm-session/otel/logger"
	"github.com/octabyte/bm-session/session"
)

const (
	msgBusy        = "Another sign-in request is in progress."
	msgNoDashboard = "No dashboard is configured for your role."
	msgWelcome     = "Welcome back"
)

// Sessions is the part of session.Manager the views drive.
type Sessions interface {
	middleware.SessionReader
	Busy() bool
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, req models.RegisterRequest) error
	Logout(ctx context.Context) error
	Authorized(ctx context.Context, fn func(ctx context.Context, token string) error) error
}

type Chatbot interface {
	Chat(ctx context.Context, token string, query models.ChatQuery) (*models.ChatReply, error)
}

// Page is the body of every rendered view.
type Page struct {
	View    enums.View   `json:"view"`
	User    *models.User `json:"user,omitempty"`
	Roles   []enums.Role `json:"roles,omitempty"`
	Message string       `json:"message,omitempty"`
}

type Handlers struct {
	sessions Sessions
	chat     Chatbot
}

func New(sessions Sessions, chat Chatbot) *Handlers {
	return &Handlers{sessions: sessions, chat: chat}
}

// Mount registers every portal route on e.
func (h *Handlers) Mount(e *echo.Echo) {
	e.Use(middleware.SetSessionInContext(h.sessions))

	e.GET(enums.ViewLogin.Path(), h.LoginPage)
	e.POST(enums.ViewLogin.Path(), h.Login)
	e.GET(enums.ViewRegister.Path(), h.RegisterPage)
	e.POST(enums.ViewRegister.Path(), h.Register)
	e.POST("/logout", h.Logout)

	e.GET("/", h.Dashboard)
	e.GET(enums.ViewDashboard.Path(), h.Dashboard)

	e.GET(enums.ViewPractitionerDashboard.Path(), h.Home(enums.ViewPractitionerDashboard),
		middleware.RequireRole(enums.RolePractitioner))
	e.GET(enums.ViewPatientPortal.Path(), h.Home(enums.ViewPatientPortal),
		middleware.RequireRole(enums.RolePatient))
	e.GET(enums.ViewNoDashboard.Path(), h.NoDashboard,
		middleware.RequireRole(enums.RoleNone))

	e.POST("/chatbot/query", h.Chat, middleware.RequireRole(enums.RoleNone))
}

func (h *Handlers) LoginPage(c echo.Context) error {
	return h.publicPage(c, enums.ViewLogin, nil)
}

func (h *Handlers) RegisterPage(c echo.Context) error {
	return h.publicPage(c, enums.ViewRegister, []enums.Role{enums.RolePractitioner, enums.RolePatient})
}

func (h *Handlers) publicPage(c echo.Context, view enums.View, roles []enums.Role) error {
	if d := gate.DecidePublic(middleware.GetStatus(c)); d.Outcome != gate.Render {
		return middleware.Deny(c, d)
	}
	return c.JSON(http.StatusOK, Page{View: view, Roles: roles})
}

func (h *Handlers) Login(c echo.Context) error {
	if h.sessions.Busy() {
		return c.JSON(http.StatusConflict, models.ErrorResponse{Message: msgBusy})
	}

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Message: "Invalid login form."})
	}

	if err := h.sessions.Login(c.Request().Context(), req.Email, req.Password); err != nil {
		return failure(c, enums.ViewLogin, err)
	}
	return c.Redirect(http.StatusSeeOther, enums.ViewDashboard.Path())
}

func (h *Handlers) Register(c echo.Context) error {
	if h.sessions.Busy() {
		return c.JSON(http.StatusConflict, models.ErrorResponse{Message: msgBusy})
	}

	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Message: "Invalid registration form."})
	}

	if err := h.sessions.Register(c.Request().Context(), req); err != nil {
		return failure(c, enums.ViewRegister, err)
	}
	return c.Redirect(http.StatusSeeOther, enums.ViewDashboard.Path())
}

// Logout always succeeds from the caller's point of view. A logout issued
// while a sign-in is in flight waits for it and then runs.
func (h *Handlers) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context()); err != nil {
		otellogger.ErrorCtx(c.Request().Context(), "logout left the session store dirty", err)
	}
	return c.Redirect(http.StatusSeeOther, enums.ViewLogin.Path())
}

// Dashboard is the default view resolver.
func (h *Handlers) Dashboard(c echo.Context) error {
	return middleware.Deny(c, gate.ResolveDefault(middleware.GetStatus(c)))
}

func (h *Handlers) Home(view enums.View) echo.HandlerFunc {
	return func(c echo.Context) error {
		status := middleware.GetStatus(c)
		return c.JSON(http.StatusOK, Page{View: view, User: status.User, Message: msgWelcome + ", " + status.User.FullName()})
	}
}

func (h *Handlers) NoDashboard(c echo.Context) error {
	status := middleware.GetStatus(c)
	return c.JSON(http.StatusOK, Page{View: enums.ViewNoDashboard, User: status.User, Message: msgNoDashboard})
}

// Chat forwards one message to the assistant. A 401 from the assistant ends
// the session like any other rejected token.
func (h *Handlers) Chat(c echo.Context) error {
	var query models.ChatQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Message: "Invalid chat message."})
	}
	if err := query.Validate(); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Message: "Message is required."})
	}

	var reply *models.ChatReply
	err := h.sessions.Authorized(c.Request().Context(), func(ctx context.Context, token string) error {
		var err error
		reply, err = h.chat.Chat(ctx, token, query)
		return err
	})
	if err != nil {
		return failure(c, enums.ViewChatbot, err)
	}
	return c.JSON(http.StatusOK, reply)
}

// failure maps a session or auth client error to a response.
func failure(c echo.Context, view enums.View, err error) error {
	code := statusFor(err)
	msg := authclient.UserMessage(err)
	if errors.Is(err, session.ErrInvalidRequest) {
		msg = "Please check the form and try again."
	}

	level := otellogger.InfoCtx
	if code >= http.StatusInternalServerError {
		level = otellogger.WarnCtx
	}
	level(c.Request().Context(), "view request failed",
		zap.String("view", string(view)), zap.Int("status", code), zap.Error(err))

	if code == http.StatusServiceUnavailable {
		c.Response().Header().Set(middleware.RetryAfterHeader, "1")
	}
	return c.JSON(code, models.ErrorResponse{Message: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrInvalidRequest):
		return http.StatusUnprocessableEntity
	case errors.Is(err, authclient.ErrUnauthorized), errors.Is(err, session.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, authclient.ErrRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrNotInitialized):
		return http.StatusServiceUnavailable
	default:
		// Transport failures and auth responses without a token or user.
		return http.StatusBadGateway
	}
}
