package autherrors

// Kind is the closed set of failure categories surfaced to the UI.
type Kind int

const (
	Unknown Kind = iota
	NetworkError
	InvalidCredentials
	EmailAlreadyExists
	WeakPassword
	TokenExpired
	TokenInvalid
	UserNotFound
	AccountDisabled
	ServerError
)

func (k Kind) String() string {
	switch k {
	case NetworkError:
		return "networkError"
	case InvalidCredentials:
		return "invalidCredentials"
	case EmailAlreadyExists:
		return "emailAlreadyExists"
	case WeakPassword:
		return "weakPassword"
	case TokenExpired:
		return "tokenExpired"
	case TokenInvalid:
		return "tokenInvalid"
	case UserNotFound:
		return "userNotFound"
	case AccountDisabled:
		return "accountDisabled"
	case ServerError:
		return "serverError"
	}
	return "unknown"
}

// IsAuthError reports failures caused by the credentials or tokens presented.
func (k Kind) IsAuthError() bool {
	switch k {
	case InvalidCredentials, TokenExpired, TokenInvalid:
		return true
	}
	return false
}

// IsUserError reports failures the user can fix by changing their input or
// contacting support.
func (k Kind) IsUserError() bool {
	switch k {
	case EmailAlreadyExists, WeakPassword, UserNotFound, AccountDisabled:
		return true
	}
	return false
}

// IsTransient reports infrastructure failures: everything that is neither an
// auth error nor a user error.
func (k Kind) IsTransient() bool {
	return !k.IsAuthError() && !k.IsUserError()
}
