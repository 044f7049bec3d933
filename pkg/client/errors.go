package client

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError represents a non-2xx HTTP response from the API.
// FromServer is set when Message came from a structured {message}/{error} body.
type HTTPError struct {
	StatusCode int
	Message    string
	FromServer bool
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

// ServerMessage returns the human-readable message the API attached to err, if any.
func ServerMessage(err error) (string, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.FromServer && httpErr.Message != "" {
		return httpErr.Message, true
	}
	return "", false
}
