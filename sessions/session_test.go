package sessions_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/lostfound-auth-client/sessions"
	"github.com/stretchr/testify/require"

	autherrs "github.com/jrsteele09/lostfound-auth-client/internal/errors"
)

var testNow = time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)

const (
	testLifetime  = 15 * time.Minute
	testThreshold = 5 * time.Minute
)

func newTestSession(t *testing.T) *sessions.Session {
	t.Helper()
	s, err := sessions.FromIssuedTokens("access-1", "refresh-1", "", testNow, testLifetime)
	require.NoError(t, err)
	return s
}

func TestFromIssuedTokens(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		s := newTestSession(t)
		require.Equal(t, sessions.DefaultTokenType, s.TokenType)
		require.Equal(t, testNow, s.IssuedAt)
		require.Equal(t, testNow.Add(testLifetime), s.ExpiresAt)
		require.NoError(t, s.Validate())
	})

	t.Run("blank access token", func(t *testing.T) {
		_, err := sessions.FromIssuedTokens("  ", "r", "bearer", testNow, testLifetime)
		require.ErrorIs(t, err, autherrs.ErrInvalidSession)
	})

	t.Run("non positive lifetime", func(t *testing.T) {
		_, err := sessions.FromIssuedTokens("a", "r", "bearer", testNow, 0)
		require.ErrorIs(t, err, autherrs.ErrInvalidSession)
	})
}

func TestSession_IsExpired(t *testing.T) {
	s := newTestSession(t)

	require.False(t, s.IsExpired(testNow))
	require.False(t, s.IsExpired(s.ExpiresAt.Add(-time.Nanosecond)))
	require.True(t, s.IsExpired(s.ExpiresAt), "expiry instant counts as expired")
	require.True(t, s.IsExpired(s.ExpiresAt.Add(time.Second)))
}

func TestSession_IsExpiringSoon(t *testing.T) {
	s := newTestSession(t)
	due := s.ExpiresAt.Add(-testThreshold)

	require.False(t, s.IsExpiringSoon(testNow, testThreshold))
	require.False(t, s.IsExpiringSoon(due.Add(-time.Nanosecond), testThreshold))
	require.True(t, s.IsExpiringSoon(due, testThreshold))
	require.True(t, s.IsExpiringSoon(s.ExpiresAt.Add(time.Hour), testThreshold))
	require.True(t, s.IsExpiringSoon(s.ExpiresAt, 0))
}

func TestSession_TimeUntil(t *testing.T) {
	s := newTestSession(t)

	require.Equal(t, testLifetime, s.TimeUntilExpiry(testNow))
	require.Equal(t, testLifetime-testThreshold, s.TimeUntilExpiringSoon(testNow, testThreshold))
	require.Zero(t, s.TimeUntilExpiry(s.ExpiresAt.Add(time.Minute)))
	require.Zero(t, s.TimeUntilExpiringSoon(s.ExpiresAt, testThreshold))
}

func TestSession_QueriesDoNotMutate(t *testing.T) {
	s := newTestSession(t)
	before := *s

	s.IsExpired(testNow.Add(time.Hour))
	s.IsExpiringSoon(testNow, testThreshold)
	s.TimeUntilExpiry(testNow)
	s.TimeUntilExpiringSoon(testNow, testThreshold)

	require.Equal(t, before, *s)
}

func TestSession_AuthorizationHeader(t *testing.T) {
	s := newTestSession(t)
	require.Equal(t, "Bearer access-1", s.AuthorizationHeader())

	s.TokenType = "MAC"
	require.Equal(t, "MAC access-1", s.AuthorizationHeader())
}

func TestSession_Clone(t *testing.T) {
	s := newTestSession(t)
	c := s.Clone()
	c.AccessToken = "changed"
	require.Equal(t, "access-1", s.AccessToken)

	var nilSession *sessions.Session
	require.Nil(t, nilSession.Clone())
}
