package authclient

import (
	"context"
	"net/http"

	"github.com/octabyte/bm-session/models"
)

const (
	pathLogin    = "/auth/login"
	pathRegister = "/auth/register"
	pathProfile  = "/auth/profile"
	pathLogout   = "/auth/logout"
	pathChatbot  = "/chatbot/query"
)

// Login exchanges credentials for a token and the user record. The response
// is returned as sent; checking that both halves are present is the caller's
// job.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.call(ctx, "login", http.MethodPost, pathLogin, "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account. The service logs the new user in and answers
// with the same shape as Login.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.call(ctx, "register", http.MethodPost, pathRegister, "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile fetches the user the token belongs to. ErrUnauthorized means the
// token is no longer accepted.
func (c *Client) Profile(ctx context.Context, token string) (*models.User, error) {
	var out models.User
	if err := c.call(ctx, "profile", http.MethodGet, pathProfile, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout notifies the service. Callers treat it as best effort.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.call(ctx, "logout", http.MethodPost, pathLogout, token, nil, nil)
}

// Chat sends one message to the assistant.
func (c *Client) Chat(ctx context.Context, token string, query models.ChatQuery) (*models.ChatReply, error) {
	if query.Language == "" {
		query.Language = "en"
	}

	var out models.ChatReply
	if err := c.call(ctx, "chatbot", http.MethodPost, pathChatbot, token, query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
