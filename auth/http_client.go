package auth

import (
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

// HTTPClient returns a client for authenticated API calls. Requests carry the
// current access token; a 401 triggers one refresh and one replay of the
// request. base may be nil to use http.DefaultTransport.
func (c *Controller) HTTPClient(base http.RoundTripper) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}
	return &http.Client{
		Transport: &unauthorizedRetry{controller: c, base: base},
	}
}

type unauthorizedRetry struct {
	controller *Controller
	base       http.RoundTripper
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// send authorizes req from the controller and reports the access token that
// actually went out.
func (u *unauthorizedRetry) send(req *http.Request) (*http.Response, string, error) {
	var sent string
	t := &oauth2.Transport{
		Source: u.controller,
		Base: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if _, token, ok := strings.Cut(r.Header.Get("Authorization"), " "); ok {
				sent = token
			}
			return u.base.RoundTrip(r)
		}),
	}
	resp, err := t.RoundTrip(req)
	return resp, sent, err
}

func (u *unauthorizedRetry) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, sent, err := u.send(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		return resp, nil
	}

	res := u.controller.HandleUnauthorized(req.Context(), sent)
	if !res.IsSuccess() {
		return resp, nil
	}

	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return resp, nil
		}
		retry.Body = body
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	resp, _, err = u.send(retry)
	return resp, err
}
