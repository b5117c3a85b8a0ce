package client

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyResponse is returned when the server replies with an empty body
	// where a payload was expected.
	ErrEmptyResponse = errors.New("empty response")
)

// NotFoundError reports a local TMA file that does not exist. It is raised
// before any network exchange takes place.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tma file not found: %s", e.Path)
}

// APIError reports any HTTP-level or transport failure from the marking
// service. StatusCode is 0 for transport failures where no response was
// received. The client never retries; the error surfaces to the caller.
type APIError struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("api request failed: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("api request failed: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// ProtocolError reports a well-formed HTTP response missing an expected
// field. It unwraps to an *APIError so callers matching on remote failures
// with errors.As catch it too.
type ProtocolError struct {
	Field string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("response missing expected field %q", e.Field)
}

func (e *ProtocolError) Unwrap() error {
	return &APIError{Message: e.Error()}
}

// TimeoutError reports that a job did not reach a terminal status before the
// polling deadline. It is distinct from transport-level timeouts on
// individual calls, which surface as *APIError.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("job did not complete within %s", e.Timeout)
}
