package transport

import (
	"context"
)

// Request is one POST to the API.
type Request struct {
	// Path is appended to the base URL, e.g. "/auth/login".
	Path string
	// Body is encoded as JSON. nil sends an empty object.
	Body any
	// BearerToken, when set, is sent as "Authorization: Bearer <token>".
	BearerToken string
}

// Transport performs network calls for the session client. On success it
// returns the raw JSON body; any failure, including non-2xx responses, is
// returned as an error.
type Transport interface {
	Post(ctx context.Context, req Request) ([]byte, error)
}

// Func adapts a function to the Transport interface.
type Func func(ctx context.Context, req Request) ([]byte, error)

func (f Func) Post(ctx context.Context, req Request) ([]byte, error) {
	return f(ctx, req)
}
