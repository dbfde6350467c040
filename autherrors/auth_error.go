package autherrors

import "fmt"

// Messages shown to the user for each classified failure.
const (
	InvalidCredentialsMsg = "Invalid email or password"
	EmailAlreadyExistsMsg = "Email is already registered"
	TokenExpiredMsg       = "Session expired. Please login again."
	AccountDisabledMsg    = "Account is disabled"
	UserNotFoundMsg       = "User not found"
	NetworkErrorMsg       = "Network error. Please check your connection."
	ServerErrorMsg        = "Server error. Please try again later."
	TokenInvalidMsg       = "Invalid session. Please login again."
	WeakPasswordMsg       = "Password is too weak"
)

// AuthError is a classified failure. Message is safe to show to the user;
// Detail keeps the raw transport text for logs.
type AuthError struct {
	Kind       Kind
	Message    string
	Detail     string
	StatusCode *int

	cause error
}

// New creates an AuthError that did not come from a transport failure.
func New(kind Kind, message string) *AuthError {
	return &AuthError{Kind: kind, Message: message}
}

func (e *AuthError) Error() string {
	if e.StatusCode != nil {
		return fmt.Sprintf("%s (%d): %s", e.Kind, *e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.cause
}

// Is matches another AuthError of the same kind, so callers can use
// errors.Is(err, autherrors.New(autherrors.TokenExpired, "")).
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func (e *AuthError) IsAuthError() bool { return e.Kind.IsAuthError() }

func (e *AuthError) IsUserError() bool { return e.Kind.IsUserError() }
