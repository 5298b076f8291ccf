package extraction

import (
	"errors"
	"fmt"
)

// ErrNoValidExpense means the response parsed but every candidate was rejected.
var ErrNoValidExpense = errors.New("no valid expense in response")

// UpstreamError reports a failed call to a text-generation backend.
type UpstreamError struct {
	Provider   string
	StatusCode int // zero when no HTTP response was received
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s upstream error (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s upstream error: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// MalformedResponseError reports a response body that is not JSON after
// fences are stripped. Raw holds the body as received.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

func upstreamErr(provider string, status int, format string, args ...any) *UpstreamError {
	return &UpstreamError{Provider: provider, StatusCode: status, Err: fmt.Errorf(format, args...)}
}
