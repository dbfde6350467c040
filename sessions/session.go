package sessions

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	autherrs "github.com/jrsteele09/lostfound-auth-client/internal/errors"
)

// DefaultTokenType is used when the server omits token_type.
const DefaultTokenType = "bearer"

// Session is the token pair held for the signed-in user plus the expiry
// bookkeeping the client keeps for it. Queries take the current time as an
// argument and never modify the session.
type Session struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

// FromIssuedTokens creates a session issued at issuedAt that expires after
// lifetime. The server does not report the access token lifetime, so the
// caller supplies the assumed value.
func FromIssuedTokens(accessToken, refreshToken, tokenType string, issuedAt time.Time, lifetime time.Duration) (*Session, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, errors.Wrap(autherrs.ErrInvalidSession, "[sessions.FromIssuedTokens] access token is required")
	}
	if lifetime <= 0 {
		return nil, errors.Wrapf(autherrs.ErrInvalidSession, "[sessions.FromIssuedTokens] lifetime must be positive, got %s", lifetime)
	}
	if tokenType == "" {
		tokenType = DefaultTokenType
	}
	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenType,
		IssuedAt:     issuedAt,
		ExpiresAt:    issuedAt.Add(lifetime),
	}, nil
}

// Validate checks the invariants every stored session must satisfy.
func (s *Session) Validate() error {
	if s == nil {
		return autherrs.ErrNoSession
	}
	if strings.TrimSpace(s.AccessToken) == "" {
		return errors.Wrap(autherrs.ErrInvalidSession, "access token is empty")
	}
	if !s.ExpiresAt.After(s.IssuedAt) {
		return errors.Wrap(autherrs.ErrInvalidSession, "expiry is not after issue time")
	}
	return nil
}

// IsExpired is true from the instant of expiry onwards.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// IsExpiringSoon is true once now is within threshold of expiry.
func (s *Session) IsExpiringSoon(now time.Time, threshold time.Duration) bool {
	return !now.Before(s.ExpiresAt.Add(-threshold))
}

// TimeUntilExpiry is zero once the session has expired.
func (s *Session) TimeUntilExpiry(now time.Time) time.Duration {
	return clampPositive(s.ExpiresAt.Sub(now))
}

// TimeUntilExpiringSoon is how long until a proactive refresh becomes due,
// zero if it already is.
func (s *Session) TimeUntilExpiringSoon(now time.Time, threshold time.Duration) time.Duration {
	return clampPositive(s.ExpiresAt.Add(-threshold).Sub(now))
}

// AuthorizationHeader is the value for the Authorization request header.
func (s *Session) AuthorizationHeader() string {
	tokenType := s.TokenType
	if strings.EqualFold(tokenType, DefaultTokenType) || tokenType == "" {
		tokenType = "Bearer"
	}
	return tokenType + " " + s.AccessToken
}

// Clone returns an independent copy.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func clampPositive(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
