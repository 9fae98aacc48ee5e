package api

import (
	"errors"
	"fmt"
)

// Error is a non-2xx response from the fleet API. Message is the server's
// human-readable message, surfaced verbatim; Status drives the
// retryable/terminal split.
type Error struct {
	Status    int
	Message   string
	RequestID string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Retryable reports whether the failure is worth retrying: rate limiting and
// server errors are, auth/validation failures are terminal.
func (e *Error) Retryable() bool {
	return e.Status == 429 || e.Status >= 500
}

// classify names the failure for logs, mirroring how each status class is
// handled.
func (e *Error) classify() string {
	switch {
	case e.Status == 401:
		return "session expired"
	case e.Status == 403:
		return "forbidden"
	case e.Status == 422:
		return "validation error"
	case e.Status == 429:
		return "rate limited"
	case e.Status >= 500:
		return "server error"
	default:
		return "request error"
	}
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == 404
}
