package errors

import "errors"

var (
	ErrMalformedRecord = errors.New("malformed session record")

	ErrNoSession      = errors.New("no session")
	ErrInvalidSession = errors.New("invalid session")

	// ErrEmptyResponse is a success status with nothing in the body.
	ErrEmptyResponse = errors.New("empty response")
)
