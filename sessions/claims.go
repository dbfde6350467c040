package sessions

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// ExpiryFromAccessToken reads iat and exp from a JWT access token without
// verifying it. The client has no verification key; the values are only used
// for refresh scheduling. ok is false for opaque tokens or tokens without exp.
func ExpiryFromAccessToken(accessToken string) (issuedAt, expiresAt time.Time, ok bool) {
	token, _, err := jwtlib.NewParser().ParseUnverified(accessToken, jwtlib.MapClaims{})
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, time.Time{}, false
	}
	iat, err := token.Claims.GetIssuedAt()
	if err == nil && iat != nil {
		issuedAt = iat.Time
	}
	return issuedAt, exp.Time, true
}
