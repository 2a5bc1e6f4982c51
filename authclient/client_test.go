package authclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octabyte/bm-session/enums"
	"github.com/octabyte/bm-session/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{BaseURL: server.URL, ServiceName: "bm-session-test"})
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestLogin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"email": "asha@example.com", "password": "pw"}, body)

		writeJSON(w, http.StatusOK, `{"access_token":"t1","user":{"id":"u1","email":"asha@example.com","firstName":"Asha","lastName":"Rao","role":"patient","isActive":true}}`)
	})

	resp, err := client.Login(context.Background(), models.LoginRequest{Email: "asha@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "t1", resp.AccessToken)
	require.NotNil(t, resp.User)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, enums.RolePatient, resp.User.Role)
	assert.True(t, resp.User.IsActive)
}

func TestRegisterSendsAllFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/register", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{
			"email":     "vaidya@example.com",
			"password":  "s3cret-pass",
			"firstName": "Ravi",
			"lastName":  "Iyer",
			"role":      "practitioner",
		}, body)

		writeJSON(w, http.StatusCreated, `{"user":{"id":"u9","role":"practitioner"}}`)
	})

	resp, err := client.Register(context.Background(), models.RegisterRequest{
		Email:     "vaidya@example.com",
		Password:  "s3cret-pass",
		FirstName: "Ravi",
		LastName:  "Iyer",
		Role:      enums.RolePractitioner,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.AccessToken)
	assert.Equal(t, "u9", resp.User.ID)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		kind        error
		message     string
	}{
		{"bad credentials", http.StatusUnauthorized, "application/json", `{"message":"Invalid credentials"}`, ErrUnauthorized, "Invalid credentials"},
		{"duplicate email", http.StatusConflict, "application/json", `{"message":"Email already registered"}`, ErrRejected, "Email already registered"},
		{"json without message", http.StatusBadRequest, "application/json", `{"errors":["x"]}`, ErrRejected, msgGeneric},
		{"html gateway error", http.StatusBadGateway, "text/html", `<h1>Bad Gateway</h1>`, ErrRejected, msgUnstructured},
		{"unauthorized without body", http.StatusUnauthorized, "", ``, ErrUnauthorized, msgUnstructured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.Login(context.Background(), models.LoginRequest{Email: "a@example.com", Password: "pw"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)

			var e *Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, tt.status, e.StatusCode)
			assert.Equal(t, "login", e.Operation)
			assert.Equal(t, tt.message, UserMessage(err))
		})
	}
}

func TestProfileBearerHeader(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if _, present := r.Header["Authorization"]; !present {
			writeJSON(w, http.StatusUnauthorized, `{"message":"No token"}`)
			return
		}
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, `{"id":"u1","role":"practitioner"}`)
	})

	user, err := client.Profile(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, enums.RolePractitioner, user.Role)

	_, err = client.Profile(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "No token", UserMessage(err))
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := New(Config{BaseURL: url})
	require.NoError(t, err)

	_, err = client.Profile(context.Background(), "t1")
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, msgTransport, UserMessage(err))
}

func TestMalformedSuccessBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"access_token":`)
	})

	_, err := client.Login(context.Background(), models.LoginRequest{Email: "a@example.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrTransport)
}

func TestNonJSONSuccessBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "ok")
	})

	_, err := client.Profile(context.Background(), "t1")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestCanceledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Profile(ctx, "t1")
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLogout(t *testing.T) {
	var called atomic.Bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called.Store(true)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/logout", r.URL.Path)
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, client.Logout(context.Background(), "t1"))
	assert.True(t, called.Load())
	assert.NoError(t, client.ResetCookies())
}

func TestResetCookiesDropsServiceCookies(t *testing.T) {
	var sawCookie atomic.Bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, err := r.Cookie("sid")
		sawCookie.Store(err == nil)
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "abc", Path: "/"})
		writeJSON(w, http.StatusOK, `{"id":"u1","role":"patient"}`)
	})
	ctx := context.Background()

	_, err := client.Profile(ctx, "t1")
	require.NoError(t, err)
	_, err = client.Profile(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, sawCookie.Load())

	require.NoError(t, client.ResetCookies())
	_, err = client.Profile(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, sawCookie.Load())
}

// Run with -race: resetting cookies must not touch the HTTP client that
// concurrent requests are using.
func TestResetCookiesDuringRequests(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "abc", Path: "/"})
		writeJSON(w, http.StatusOK, `{"response":"ok"}`)
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := client.Chat(context.Background(), "t1", models.ChatQuery{Message: "hi"})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, client.ResetCookies())
		}()
	}
	wg.Wait()
}

func TestChat(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chatbot/query", r.URL.Path)
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))

		var q models.ChatQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&q))
		assert.Equal(t, "en", q.Language)
		writeJSON(w, http.StatusOK, `{"response":"Drink warm water."}`)
	})

	reply, err := client.Chat(context.Background(), "t1", models.ChatQuery{Message: "vata tips?"})
	require.NoError(t, err)
	assert.Equal(t, "Drink warm water.", reply.Response)
}

func TestUserMessageForeignError(t *testing.T) {
	assert.Equal(t, msgGeneric, UserMessage(errors.New("boom")))
	assert.Equal(t, msgGeneric, UserMessage(nil))
}
