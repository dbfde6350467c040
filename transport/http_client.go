package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDHeader = "X-Request-ID"
	maxResponseBody = 1 << 20
)

var _ Transport = (*HTTPClient)(nil)

// HTTPClient posts JSON to the lost-and-found API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// HTTPClientOption defines a function type to modify the HTTPClient instance.
type HTTPClientOption func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) HTTPClientOption {
	return func(hc *HTTPClient) {
		hc.client = c
	}
}

func WithLogger(l zerolog.Logger) HTTPClientOption {
	return func(hc *HTTPClient) {
		hc.logger = l
	}
}

// NewHTTPClient creates a transport for baseURL. The timeout bounds each call,
// including reading the response.
func NewHTTPClient(baseURL string, timeout time.Duration, options ...HTTPClientOption) (*HTTPClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("[NewHTTPClient] base URL is required")
	}
	hc := &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  log.Logger,
	}
	for _, opt := range options {
		opt(hc)
	}
	return hc, nil
}

func (hc *HTTPClient) Post(ctx context.Context, req Request) ([]byte, error) {
	body := req.Body
	if body == nil {
		body = struct{}{}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrapf(err, "[HTTPClient.Post] encode %s", req.Path)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, hc.baseURL+req.Path, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrapf(err, "[HTTPClient.Post] build %s", req.Path)
	}
	requestID := uuid.New().String()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(requestIDHeader, requestID)
	if req.BearerToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.BearerToken)
	}

	logger := hc.logger.With().Str("path", req.Path).Str("request_id", requestID).Logger()
	start := time.Now()

	resp, err := hc.client.Do(httpReq)
	if err != nil {
		logger.Debug().Err(err).Msg("request failed")
		return nil, newNetworkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		logger.Debug().Err(err).Msg("reading response failed")
		return nil, newNetworkError(err)
	}

	logger.Debug().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("request complete")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: errorDetail(data)}
	}
	return data, nil
}

// errorDetail pulls the message out of a {"detail": ...} or {"message": ...}
// error body, returning the raw body otherwise.
func errorDetail(data []byte) string {
	var body struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return string(data)
	}
	if len(body.Detail) > 0 {
		var s string
		if json.Unmarshal(body.Detail, &s) == nil {
			return s
		}
		return string(body.Detail)
	}
	if body.Message != "" {
		return body.Message
	}
	if body.Error != "" {
		return body.Error
	}
	return string(data)
}
