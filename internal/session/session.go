// Package session holds the process-lifetime mirror of the durable session
// token. The request path reads it synchronously; the secrets store is only
// touched once, at hydration.
package session

import (
	"sync"

	"golang.org/x/oauth2"

	"github.com/padlock-app/padlock/internal/secrets"
)

// Session is a single mutable token slot. It implements oauth2.TokenSource
// so the API client consumes it like any other token source: an empty slot
// yields a token that fails Valid(), which the client treats as "send the
// request without a credential".
//
// The slot is hydrated from the store asynchronously at construction.
// Hydration never overwrites a value written by Set or Clear in the
// meantime; a completed login or teardown is always newer than whatever was
// on disk at process start.
type Session struct {
	mu      sync.RWMutex
	token   string
	touched bool // Set or Clear ran; hydration must not apply

	ready chan struct{}
}

var _ oauth2.TokenSource = (*Session)(nil)

// New creates a Session and starts hydrating it from store in the
// background. Requests issued before hydration completes go out without a
// credential; callers that prefer to wait can block on Ready.
func New(store secrets.Store) *Session {
	s := &Session{ready: make(chan struct{})}

	go func() {
		defer close(s.ready)

		value, err := store.Get(secrets.SessionTokenKey)
		if err != nil {
			return // absent or unreadable: stay unauthenticated
		}

		s.mu.Lock()
		if !s.touched {
			s.token = value
		}
		s.mu.Unlock()
	}()

	return s
}

// NewEmpty creates a Session with no backing store and nothing to hydrate.
func NewEmpty() *Session {
	s := &Session{ready: make(chan struct{})}
	close(s.ready)
	return s
}

// Ready is closed once hydration has finished, whatever the outcome.
func (s *Session) Ready() <-chan struct{} {
	return s.ready
}

// Token implements oauth2.TokenSource. It never returns an error: an absent
// token comes back as a zero token for which Valid() is false.
func (s *Session) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &oauth2.Token{
		AccessToken: s.token,
		TokenType:   "Bearer",
	}, nil
}

// Current returns the raw token value and whether one is present.
func (s *Session) Current() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Set replaces the cached token. The caller must have persisted the value to
// the secrets store first; persist-then-cache is the ordering that keeps a
// crash between the two steps harmless.
func (s *Session) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.touched = true
	s.mu.Unlock()
}

// Clear drops the cached token.
func (s *Session) Clear() {
	s.mu.Lock()
	s.token = ""
	s.touched = true
	s.mu.Unlock()
}
