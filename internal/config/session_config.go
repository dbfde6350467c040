package config

import (
	"time"

	"github.com/pkg/errors"
)

// SessionConfig controls token lifetime bookkeeping on the client.
type SessionConfig interface {
	// GetTokenLifetime is the lifetime assumed for an access token when the
	// server does not say otherwise.
	GetTokenLifetime() time.Duration
	// GetRefreshThreshold is how long before expiry a proactive refresh runs.
	GetRefreshThreshold() time.Duration
	// GetUseTokenExpiryClaim enables reading exp/iat from JWT access tokens.
	GetUseTokenExpiryClaim() bool
}

type Session struct {
	TokenLifetime       time.Duration `env:"AUTH_TOKEN_LIFETIME" envDefault:"15m"`
	RefreshThreshold    time.Duration `env:"AUTH_REFRESH_THRESHOLD" envDefault:"5m"`
	UseTokenExpiryClaim bool          `env:"AUTH_USE_TOKEN_EXPIRY_CLAIM" envDefault:"false"`
}

var _ SessionConfig = Session{}

func (s Session) GetTokenLifetime() time.Duration {
	return s.TokenLifetime
}

func (s Session) GetRefreshThreshold() time.Duration {
	return s.RefreshThreshold
}

func (s Session) GetUseTokenExpiryClaim() bool {
	return s.UseTokenExpiryClaim
}

func (s Session) validate() error {
	return ValidateSession(s)
}

// ValidateSession checks that a refresh can be scheduled before expiry.
func ValidateSession(c SessionConfig) error {
	if c.GetTokenLifetime() <= 0 {
		return errors.New("token lifetime must be positive")
	}
	if c.GetRefreshThreshold() < 0 {
		return errors.New("refresh threshold must not be negative")
	}
	if c.GetRefreshThreshold() >= c.GetTokenLifetime() {
		return errors.New("refresh threshold must be shorter than the token lifetime")
	}
	return nil
}
