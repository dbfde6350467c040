package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/jrsteele09/lostfound-auth-client/autherrors"
	"github.com/jrsteele09/lostfound-auth-client/authmodel"
	"github.com/jrsteele09/lostfound-auth-client/internal/utils"
	"github.com/jrsteele09/lostfound-auth-client/transport"
	"github.com/jrsteele09/lostfound-auth-client/users"
)

// Refresh exchanges the refresh token for a new session. Any failure signs
// the user out; there is no retry. Callers that observed the same session
// share one server call: concurrent calls coalesce, and a call that waited
// behind a refresh of the session it saw returns that refresh's outcome.
func (c *Controller) Refresh(ctx context.Context) Result {
	c.mu.RLock()
	gen := c.generation
	c.mu.RUnlock()
	return c.refreshFrom(ctx, gen)
}

// RefreshIfExpiringSoon refreshes only when the session is within the refresh
// threshold of expiry; otherwise it returns the current session.
func (c *Controller) RefreshIfExpiringSoon(ctx context.Context) Result {
	c.mu.RLock()
	session, user, gen := c.session, c.user, c.generation
	c.mu.RUnlock()

	if session == nil {
		return Failure(noSession())
	}
	if !session.IsExpiringSoon(c.nowTime(), c.config.GetRefreshThreshold()) {
		return Success(user, session)
	}
	return c.refreshFrom(ctx, gen)
}

// HandleUnauthorized reacts to a 401 from an authenticated request made with
// rejectedToken. If the session has already moved on to a different access
// token, the current session is returned without contacting the server.
func (c *Controller) HandleUnauthorized(ctx context.Context, rejectedToken string) Result {
	c.mu.RLock()
	session, user, gen := c.session, c.user, c.generation
	c.mu.RUnlock()

	if session == nil {
		return Failure(noSession())
	}
	if rejectedToken != "" && session.AccessToken != rejectedToken {
		return Success(user, session)
	}
	return c.refreshFrom(ctx, gen)
}

func (c *Controller) refreshFrom(ctx context.Context, gen uint64) Result {
	if err := ctx.Err(); err != nil {
		return Failure(cancelled(err))
	}

	// The shared flight outlives any one caller; each caller gives up on its
	// own ctx.
	flight := c.refreshGroup.DoChan(strconv.FormatUint(gen, 10), func() (interface{}, error) {
		// Acquire cannot fail on a context that is never cancelled.
		_ = c.ops.Acquire(context.WithoutCancel(ctx), 1)
		defer c.ops.Release(1)

		c.mu.RLock()
		session, user, current := c.session, c.user, c.generation
		c.mu.RUnlock()
		if current != gen {
			if session == nil {
				return Failure(noSession()), nil
			}
			return Success(user, session), nil
		}
		return c.refreshLocked(), nil
	})

	select {
	case <-ctx.Done():
		return Failure(cancelled(ctx.Err()))
	case r := <-flight:
		return r.Val.(Result)
	}
}

// refreshLocked performs the refresh call. Callers hold the operation guard.
func (c *Controller) refreshLocked() Result {
	c.mu.RLock()
	previous, user := c.session, c.user
	c.mu.RUnlock()

	if previous == nil {
		return Failure(noSession())
	}

	c.setState(Loading)

	// Older sessions were stored without a refresh token; the access token
	// is what the server expects from them.
	bearer := utils.FirstNonEmpty(previous.RefreshToken, previous.AccessToken)

	body, err := c.transport.Post(context.Background(), transport.Request{
		Path:        authmodel.RefreshPath,
		Body:        authmodel.RefreshRequest{},
		BearerToken: bearer,
	})
	if err != nil {
		return c.refreshFailed(refreshError(c.classifier.Classify(err)))
	}

	resp, err := authmodel.ParseTokenResponse(body)
	if err != nil {
		return c.refreshFailed(malformedResponse(err))
	}
	if resp.HasUser() {
		parsed, err := users.Parse(resp.User)
		if err != nil {
			return c.refreshFailed(malformedResponse(err))
		}
		user = parsed
	}
	session, err := c.issuer.Issue(resp, c.nowTime(), previous)
	if err != nil {
		return c.refreshFailed(malformedResponse(err))
	}

	c.persist(session, user)
	c.setSession(session, user)
	c.logger.Info().Time("expires_at", session.ExpiresAt).Msg("session refreshed")
	return Success(user, session)
}

func (c *Controller) refreshFailed(ae *autherrors.AuthError) Result {
	c.logger.Warn().Str("kind", ae.Kind.String()).Str("detail", ae.Detail).Msg("refresh failed, signing out")
	c.signOutLocked()
	return Failure(ae)
}

// refreshError reports credential-type refresh failures as an expired
// session: a 401 on refresh means the session is gone, not that the password
// was wrong.
func refreshError(ae *autherrors.AuthError) *autherrors.AuthError {
	if !ae.IsAuthError() || ae.Kind == autherrors.TokenExpired {
		return ae
	}
	expired := autherrors.New(autherrors.TokenExpired, autherrors.TokenExpiredMsg)
	expired.Detail = ae.Detail
	expired.StatusCode = ae.StatusCode
	return expired
}

func noSession() *autherrors.AuthError {
	return autherrors.New(autherrors.TokenExpired, autherrors.TokenExpiredMsg)
}

// minAutoRefreshInterval stops the auto refresh loop from hammering the
// server when it keeps issuing sessions that are already inside the refresh
// threshold.
const minAutoRefreshInterval = 30 * time.Second

// RunAutoRefresh refreshes the session proactively as it comes within the
// refresh threshold of expiry. It blocks until ctx is done.
func (c *Controller) RunAutoRefresh(ctx context.Context) error {
	justRefreshed := false
	for {
		c.mu.RLock()
		session, changed := c.session, c.changed
		c.mu.RUnlock()

		var timer *time.Timer
		var due <-chan time.Time
		if session != nil {
			wait := session.TimeUntilExpiringSoon(c.nowTime(), c.config.GetRefreshThreshold())
			if justRefreshed && wait < minAutoRefreshInterval {
				wait = minAutoRefreshInterval
			}
			timer = time.NewTimer(wait)
			due = timer.C
		}

		select {
		case <-ctx.Done():
			stopTimer(timer)
			return ctx.Err()
		case <-changed:
			stopTimer(timer)
		case <-due:
			res := c.RefreshIfExpiringSoon(ctx)
			if !res.IsSuccess() {
				c.logger.Warn().Str("kind", res.Err().Kind.String()).Msg("auto refresh failed")
			}
			justRefreshed = res.IsSuccess()
			continue
		}
		justRefreshed = false
	}
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}
