package middleware

const (
	// RequestSessionKey holds the session.Status the request was gated on.
	RequestSessionKey = "requestSession"
	RetryAfterHeader  = "Retry-After"
)

const (
	msgLoading = "Session is loading, try again shortly."
)
