package transport

import (
	"context"
	"errors"
	"net"
)

// NetworkError is a call that never produced an HTTP response. Its text
// carries no URL, path or address, so text classification only sees the
// network signal. The underlying error stays reachable through Unwrap.
type NetworkError struct {
	Timeout bool
	cause   error
}

func newNetworkError(err error) *NetworkError {
	var netErr net.Error
	timeout := errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout())
	return &NetworkError{Timeout: timeout, cause: err}
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return "network request timed out"
	}
	return "network connection failed"
}

func (e *NetworkError) Unwrap() error {
	return e.cause
}
