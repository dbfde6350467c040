package auth

// State is the authentication status the UI observes. Exactly one holds at
// any time.
type State int

const (
	// Initial holds until RestoreSession or a credential operation runs.
	Initial State = iota
	// Loading holds while an operation is talking to the server or storage.
	Loading
	Authenticated
	Unauthenticated
	// Error is published when an operation fails and is immediately followed
	// by the state the controller settles in.
	Error
)

func (s State) String() string {
	switch s {
	case Initial:
		return "initial"
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	case Error:
		return "error"
	}
	return "unknown"
}
