package secrets

import "errors"

// Store is the durable credential storage used for the session token.
// Implementations must tolerate concurrent Set/Get on the same key: a read
// racing a write may observe either value, never a torn one.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	List() ([]string, error)
}

// ErrNotFound is returned when a key is not present in the store.
var ErrNotFound = errors.New("key not found")

// ServiceName is the service identifier used for keyring entries.
const ServiceName = "padlock"

// SessionTokenKey is the single durable key holding the current session
// token. Written on login, removed on logout or forced teardown.
const SessionTokenKey = "session_token"
