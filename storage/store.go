package storage

// Keys under which the session client persists its state.
const (
	KeyLoggedIn = "auth.logged_in"
	KeyToken    = "auth.token"
	KeyUser     = "auth.user"
)

// AuthKeys lists every key the session client owns, in the order they are
// removed on sign-out. The logged-in flag goes first so an interrupted
// sign-out never leaves the flag set without a token.
func AuthKeys() []string {
	return []string{KeyLoggedIn, KeyToken, KeyUser}
}

// Store is a persistent string key-value store. Implementations are expected
// to encrypt at rest; callers treat them as opaque.
type Store interface {
	// Get returns the value and whether the key exists.
	Get(key string) (string, bool, error)

	// Set creates or replaces the value for key.
	Set(key, value string) error

	// Remove deletes the key. Removing a missing key is not an error.
	Remove(key string) error
}
