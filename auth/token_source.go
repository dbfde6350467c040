package auth

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/jrsteele09/lostfound-auth-client/sessions"
)

var _ oauth2.TokenSource = (*Controller)(nil)

// Token returns the current access token, refreshing first when it is within
// the refresh threshold of expiry. It lets the controller back an
// oauth2.Transport for authenticated API calls.
func (c *Controller) Token() (*oauth2.Token, error) {
	session := c.Session()
	if session == nil {
		return nil, noSession()
	}
	if session.IsExpiringSoon(c.nowTime(), c.config.GetRefreshThreshold()) {
		res := c.RefreshIfExpiringSoon(context.Background())
		if !res.IsSuccess() {
			return nil, res.Err()
		}
		session = res.Session()
	}
	return toOAuth2Token(session), nil
}

func toOAuth2Token(s *sessions.Session) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		TokenType:    s.TokenType,
		RefreshToken: s.RefreshToken,
		Expiry:       s.ExpiresAt,
	}
}
