package authclient

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport covers unreachable hosts, timeouts and malformed success
	// bodies. Never retried.
	ErrTransport = errors.New("authclient: transport failure")

	// ErrUnauthorized is returned for 401 responses.
	ErrUnauthorized = errors.New("authclient: unauthorized")

	// ErrRejected is returned for any other non-2xx response.
	ErrRejected = errors.New("authclient: request rejected")
)

const (
	msgTransport    = "Unable to reach the server. Check your connection and try again."
	msgGeneric      = "An error occurred"
	msgUnstructured = "An error occurred with no JSON response."
)

// Error is the uniform failure returned by every Client call. Message is safe
// to show to the user: it is either the service's own message or a generic
// fallback.
type Error struct {
	Kind       error
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (HTTP %d): %s", e.Kind, e.Operation, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Operation, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Operation)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// UserMessage returns the text to display for err, falling back to a generic
// message for errors that did not come from this package.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return msgGeneric
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrRejected):
		return "rejected"
	default:
		return "transport"
	}
}
