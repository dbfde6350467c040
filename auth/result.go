package auth

import (
	"github.com/jrsteele09/lostfound-auth-client/autherrors"
	"github.com/jrsteele09/lostfound-auth-client/sessions"
	"github.com/jrsteele09/lostfound-auth-client/users"
)

// Result is the outcome of SignIn, SignUp and Refresh: either a user with a
// session, or a classified error. Never both.
type Result struct {
	user    *users.User
	session *sessions.Session
	err     *autherrors.AuthError
}

// Success builds a successful result. The values are copied.
func Success(user *users.User, session *sessions.Session) Result {
	return Result{user: user.Clone(), session: session.Clone()}
}

// Failure builds a failed result.
func Failure(err *autherrors.AuthError) Result {
	if err == nil {
		err = autherrors.New(autherrors.Unknown, "unknown error")
	}
	return Result{err: err}
}

func (r Result) IsSuccess() bool {
	return r.err == nil && r.session != nil
}

// User is nil on failure. It may also be nil on success when the server did
// not return the account.
func (r Result) User() *users.User {
	return r.user
}

// Session is nil on failure.
func (r Result) Session() *sessions.Session {
	return r.session
}

// Err is nil on success.
func (r Result) Err() *autherrors.AuthError {
	if r.IsSuccess() {
		return nil
	}
	if r.err == nil {
		return autherrors.New(autherrors.Unknown, "empty result")
	}
	return r.err
}

// Match calls exactly one of the two functions.
func (r Result) Match(onSuccess func(*users.User, *sessions.Session), onFailure func(*autherrors.AuthError)) {
	if r.IsSuccess() {
		onSuccess(r.user, r.session)
		return
	}
	onFailure(r.Err())
}
