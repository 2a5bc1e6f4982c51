// Package authclient talks to the remote authentication service. Every call
// is stateless: the bearer token is passed in by the caller.
package authclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"github.com/octabyte/bm-session/otel"
	"github.com/octabyte/bm-session/otel/metrics"
	"github.com/octabyte/bm-session/utils"
)

const (
	DefaultBaseURL = "http://localhost:3001"

	clientName = "auth-service"
)

type Config struct {
	BaseURL     string
	ServiceName string
	// Timeout of zero keeps the transport default.
	Timeout time.Duration
	// HTTPClient overrides the underlying client, mainly for tests.
	HTTPClient *http.Client
}

type Client struct {
	rc          *resty.Client
	jar         *sessionJar
	baseURL     string
	serviceName string
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	var rc *resty.Client
	if cfg.HTTPClient != nil {
		rc = resty.NewWithClient(cfg.HTTPClient)
	} else {
		rc = resty.New()
	}

	jar, err := newSessionJar()
	if err != nil {
		return nil, err
	}

	rc.SetBaseURL(cfg.BaseURL).
		SetCookieJar(jar).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal).
		OnBeforeRequest(otel.WithTraceHeaders)
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}

	return &Client{rc: rc, jar: jar, baseURL: cfg.BaseURL, serviceName: cfg.ServiceName}, nil
}

// ResetCookies drops any cookies the service set during the session. It is
// safe to call while other requests are running.
func (c *Client) ResetCookies() error {
	return c.jar.Reset()
}

// call performs one JSON request. out may be nil when the body is ignored.
func (c *Client) call(ctx context.Context, operation, method, path, token string, body, out any) error {
	ctx, finish := otel.StartHTTPSpan(ctx, c.serviceName, clientName, operation, method, c.baseURL, path)
	start := time.Now()

	statusCode, err := c.do(ctx, operation, method, path, token, body, out)

	finish(statusCode, err)
	metrics.RecordAuthRequest(ctx, operation, outcome(err), statusCode, time.Since(start))
	return err
}

func (c *Client) do(ctx context.Context, operation, method, path, token string, body, out any) (int, error) {
	req := c.rc.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if header, ok := utils.BearerHeader(token); ok {
		req.SetHeader(utils.AuthorizationHeader, header)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return 0, &Error{Kind: ErrTransport, Operation: operation, Message: msgTransport, Err: err}
	}

	status := resp.StatusCode()
	if !resp.IsSuccess() {
		return status, classify(operation, resp)
	}

	if out == nil || status == http.StatusNoContent {
		return status, nil
	}
	if !utils.IsJSONContentType(resp.Header().Get("Content-Type")) {
		return status, &Error{Kind: ErrTransport, Operation: operation, Message: msgTransport,
			Err: fmt.Errorf("unexpected content type %q", resp.Header().Get("Content-Type"))}
	}
	if err := utils.BytesToStruct(resp.Body(), out); err != nil {
		return status, &Error{Kind: ErrTransport, Operation: operation, Message: msgTransport, Err: err}
	}
	return status, nil
}

func classify(operation string, resp *resty.Response) error {
	e := &Error{Kind: ErrRejected, Operation: operation, StatusCode: resp.StatusCode(), Message: msgGeneric}
	if resp.StatusCode() == http.StatusUnauthorized {
		e.Kind = ErrUnauthorized
	}

	if !utils.IsJSONContentType(resp.Header().Get("Content-Type")) {
		e.Message = msgUnstructured
		return e
	}
	if msg := utils.ErrorMessage(resp.Body()); msg != "" {
		e.Message = msg
	}
	return e
}
