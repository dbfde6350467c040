package authmodel

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	autherrs "github.com/jrsteele09/lostfound-auth-client/internal/errors"
)

// TokenResponse is the success payload of login, register and refresh.
type TokenResponse struct {
	// AccessToken authorises API calls. Required.
	AccessToken string `json:"access_token"`

	// RefreshToken is optional; refresh responses may omit it, in which case
	// the client keeps the one it already holds.
	RefreshToken *string `json:"refresh_token,omitempty"`

	// TokenType is normally "bearer".
	TokenType string `json:"token_type,omitempty"`

	// ExpiresIn is the access token lifetime in seconds. The current backend
	// does not send it.
	ExpiresIn int `json:"expires_in,omitempty"`

	// User is the signed-in account. Absent on some refresh responses.
	User json.RawMessage `json:"user,omitempty"`
}

// ParseTokenResponse decodes and validates a success payload.
func ParseTokenResponse(body []byte) (*TokenResponse, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.Wrap(autherrs.ErrEmptyResponse, "[authmodel.ParseTokenResponse]")
	}
	var resp TokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "[authmodel.ParseTokenResponse] decode")
	}
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *TokenResponse) Validate() error {
	if strings.TrimSpace(r.AccessToken) == "" {
		return errors.New("[TokenResponse.Validate] access_token missing from response")
	}
	return nil
}

// HasUser reports whether the payload carries a non-null user object.
func (r *TokenResponse) HasUser() bool {
	trimmed := strings.TrimSpace(string(r.User))
	return trimmed != "" && trimmed != "null"
}
