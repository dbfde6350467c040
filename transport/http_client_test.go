package transport_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/lostfound-auth-client/autherrors"
	"github.com/jrsteele09/lostfound-auth-client/transport"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Post(t *testing.T) {
	var gotBody map[string]string
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)
		gotHeaders = r.Header.Clone()
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"acc"}`))
	}))
	defer server.Close()

	c, err := transport.NewHTTPClient(server.URL+"/api/", time.Second)
	require.NoError(t, err)

	data, err := c.Post(context.Background(), transport.Request{
		Path: "/auth/login",
		Body: map[string]string{"username": "jane", "password": "pw"},
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"access_token":"acc"}`, string(data))
	require.Equal(t, map[string]string{"username": "jane", "password": "pw"}, gotBody)
	require.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	require.NotEmpty(t, gotHeaders.Get("X-Request-ID"))
	require.Empty(t, gotHeaders.Get("Authorization"))
}

func TestHTTPClient_BearerAndEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer refresh-1", r.Header.Get("Authorization"))
		data, _ := io.ReadAll(r.Body)
		require.JSONEq(t, `{}`, string(data))
		_, _ = w.Write([]byte(`{"access_token":"acc-2"}`))
	}))
	defer server.Close()

	c, err := transport.NewHTTPClient(server.URL, time.Second)
	require.NoError(t, err)

	_, err = c.Post(context.Background(), transport.Request{Path: "/auth/refresh", BearerToken: "refresh-1"})
	require.NoError(t, err)
}

func TestHTTPClient_StatusErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
		kind    autherrors.Kind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail":"Incorrect username or password"}`, "401 Unauthorized: Incorrect username or password", autherrors.InvalidCredentials},
		{"already registered", http.StatusBadRequest, `{"detail":"Email already registered"}`, "400 Bad Request: Email already registered", autherrors.EmailAlreadyExists},
		{"forbidden", http.StatusForbidden, `{"message":"inactive"}`, "403 Forbidden: inactive", autherrors.AccountDisabled},
		{"plain text body", http.StatusInternalServerError, `boom`, "500 Internal Server Error: boom", autherrors.Unknown},
		{"validation detail list", http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"}]}`, `422 Unprocessable Entity: [{"msg":"field required"}]`, autherrors.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c, err := transport.NewHTTPClient(server.URL, time.Second)
			require.NoError(t, err)

			_, err = c.Post(context.Background(), transport.Request{Path: "/auth/login"})
			require.Error(t, err)

			var se *transport.StatusError
			require.True(t, errors.As(err, &se))
			require.Equal(t, tt.status, se.StatusCode())
			require.Equal(t, tt.wantMsg, err.Error())
			require.Equal(t, tt.kind, autherrors.Classify(err).Kind)
		})
	}
}

func TestHTTPClient_NetworkFailureClassifies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c, err := transport.NewHTTPClient(url, time.Second)
	require.NoError(t, err)

	_, err = c.Post(context.Background(), transport.Request{Path: "/auth/login"})
	require.Error(t, err)
	require.Equal(t, autherrors.NetworkError, autherrors.Classify(err).Kind)
	require.Equal(t, autherrors.NetworkError, autherrors.StatusClassifier{}.Classify(err).Kind)
}

func TestHTTPClient_NetworkFailureIgnoresEndpointText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	closedURL := server.URL
	server.Close()

	tests := []struct {
		name    string
		baseURL string
		path    string
	}{
		{"401 in base path", closedURL + "/v401", "/auth/login"},
		{"403 in base path", closedURL + "/tenant-4031", "/auth/login"},
		{"404 in base path", closedURL + "/4041", "/auth/register"},
		{"refresh path", closedURL, "/auth/refresh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := transport.NewHTTPClient(tt.baseURL, time.Second)
			require.NoError(t, err)

			_, err = c.Post(context.Background(), transport.Request{Path: tt.path, BearerToken: "refresh-1"})
			require.Error(t, err)
			require.NotContains(t, err.Error(), tt.baseURL)
			require.NotContains(t, err.Error(), tt.path)

			var ne *transport.NetworkError
			require.True(t, errors.As(err, &ne))
			require.False(t, ne.Timeout)
			require.Equal(t, autherrors.NetworkError, autherrors.Classify(err).Kind)
			require.Equal(t, autherrors.NetworkError, autherrors.StatusClassifier{}.Classify(err).Kind)
		})
	}
}

func TestHTTPClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	c, err := transport.NewHTTPClient(server.URL, 50*time.Millisecond)
	require.NoError(t, err)

	_, err = c.Post(context.Background(), transport.Request{Path: "/auth/login"})
	require.Error(t, err)
	var ne *transport.NetworkError
	require.True(t, errors.As(err, &ne))
	require.True(t, ne.Timeout)
	require.Equal(t, autherrors.NetworkError, autherrors.Classify(err).Kind)
	require.Equal(t, autherrors.NetworkError, autherrors.StatusClassifier{}.Classify(err).Kind)
}

func TestNewHTTPClient_RequiresBaseURL(t *testing.T) {
	_, err := transport.NewHTTPClient("  ", time.Second)
	require.Error(t, err)
}
