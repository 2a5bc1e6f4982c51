package session

import "errors"

var (
	// ErrNotInitialized is returned by mutations issued before Initialize.
	ErrNotInitialized = errors.New("session: not initialized")

	ErrAlreadyInitialized = errors.New("session: already initialized")

	// ErrInvalidRequest wraps local validation failures of login or
	// registration input. Nothing is sent to the auth service.
	ErrInvalidRequest = errors.New("session: invalid request")

	// ErrMissingToken is returned when a login or registration response
	// carries no access token.
	ErrMissingToken = errors.New("session: auth response has no access token")

	// ErrMissingUser is returned when a login or registration response
	// carries no usable user record.
	ErrMissingUser = errors.New("session: auth response has no user")

	// ErrUnknownRole is returned when the auth service answers with a user
	// whose role is outside the known enumeration.
	ErrUnknownRole = errors.New("session: user has an unknown role")

	ErrNotAuthenticated = errors.New("session: not authenticated")
)
