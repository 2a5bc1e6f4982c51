package utils

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	AuthorizationHeader = "Authorization"
	bearerScheme        = "Bearer"
)

// BearerHeader builds the Authorization header value for token. It reports
// false for a blank token so that callers omit the header entirely.
func BearerHeader(token string) (string, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return fmt.Sprintf("%s %s", bearerScheme, token), true
}

// ErrorMessage extracts the human readable "message" field from an error
// body. Non-JSON bodies and bodies without a string message yield "".
func ErrorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	msg := gjson.GetBytes(body, "message")
	if msg.Type != gjson.String {
		return ""
	}
	return strings.TrimSpace(msg.String())
}

// IsJSONContentType reports whether a Content-Type header announces JSON.
func IsJSONContentType(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}
