package sessions

import (
	"time"

	"github.com/jrsteele09/lostfound-auth-client/authmodel"
	"github.com/jrsteele09/lostfound-auth-client/internal/utils"
)

// Issuer turns token responses into sessions.
type Issuer struct {
	// Lifetime is assumed when the response carries no expiry information.
	Lifetime time.Duration
	// UseExpiryClaim reads exp from JWT access tokens.
	UseExpiryClaim bool
}

// Issue builds a session from a login, register or refresh response.
// Expiry comes from expires_in when present, then from the token's exp claim
// when enabled, then from Lifetime. A refresh response without a new refresh
// token keeps the one from previous.
func (i Issuer) Issue(resp *authmodel.TokenResponse, now time.Time, previous *Session) (*Session, error) {
	refreshToken := utils.Deref(resp.RefreshToken)
	if refreshToken == "" && previous != nil {
		refreshToken = previous.RefreshToken
	}

	lifetime := i.Lifetime
	if resp.ExpiresIn > 0 {
		lifetime = time.Duration(resp.ExpiresIn) * time.Second
	} else if i.UseExpiryClaim {
		if _, exp, ok := ExpiryFromAccessToken(resp.AccessToken); ok && exp.After(now) {
			lifetime = exp.Sub(now)
		}
	}

	return FromIssuedTokens(resp.AccessToken, refreshToken, resp.TokenType, now, lifetime)
}
