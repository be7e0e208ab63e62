package vaultapi

import (
	"errors"
	"fmt"
	"net"
)

// ErrUnauthorized is returned when the service rejects an authenticated call
// because the token is invalid or expired. Callers must treat the session as
// dead; the client also fires the installed unauthorized hook so teardown
// happens regardless of which operation tripped it.
var ErrUnauthorized = errors.New("invalid or expired session token")

// APIError is a non-auth rejection from the service (4xx/5xx). Message is
// the server-supplied text, surfaced to the user verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return e.Message
}

// TransportError is a network-level failure: timeout, refused connection,
// DNS. No server message exists; the operation may be retried manually.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a deadline expiry.
func (e *TransportError) Timeout() bool {
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}
