// Package auth orchestrates the session lifecycle: login, logout, and the
// forced teardown that follows any server rejection of the token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/padlock-app/padlock/internal/secrets"
	"github.com/padlock-app/padlock/internal/session"
	"github.com/padlock-app/padlock/internal/vaultapi"
)

// ErrInvalidCredentials is returned by Login when the server rejects the
// username/password pair. Callers use it to distinguish "wrong password"
// messaging from "try again" transport failures.
var ErrInvalidCredentials = errors.New("invalid username or password")

// State is the session state visible to the presentation layer.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
)

func (s State) String() string {
	if s == StateAuthenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Manager owns the auth flow. It is the only writer of the token store and
// session cache pair, and always writes them in the same order: persist
// first, then update the cache. A crash between the two steps leaves at
// worst a stale-but-valid cache, never a persisted token with no mirror.
type Manager struct {
	store secrets.Store
	sess  *session.Session
	svc   vaultapi.VaultService

	mu        sync.Mutex
	listeners []func(State)
}

// NewManager creates a Manager over the given store, session cache, and
// service client.
func NewManager(store secrets.Store, sess *session.Session, svc vaultapi.VaultService) *Manager {
	return &Manager{store: store, sess: sess, svc: svc}
}

// State derives the current session state from the cache. The cache is the
// single source of truth inside the process.
func (m *Manager) State() State {
	if _, ok := m.sess.Current(); ok {
		return StateAuthenticated
	}
	return StateUnauthenticated
}

// OnChange registers fn to run after every completed state transition.
func (m *Manager) OnChange(fn func(State)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

func (m *Manager) notify(s State) {
	m.mu.Lock()
	listeners := make([]func(State), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
}

// Login exchanges credentials for a session token and stores it durably
// before mirroring it into the cache. Returns the server-assigned user
// identifier. A 4xx from the server maps to ErrInvalidCredentials; transport
// failures pass through as *vaultapi.TransportError.
func (m *Manager) Login(ctx context.Context, username, password string) (int64, error) {
	resp, err := m.svc.Login(ctx, username, password)
	if err != nil {
		var apiErr *vaultapi.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return 0, fmt.Errorf("%w: %s", ErrInvalidCredentials, apiErr.Message)
		}
		return 0, err
	}

	// Persist first, then cache.
	if err := m.store.Set(secrets.SessionTokenKey, resp.AccessToken); err != nil {
		return 0, fmt.Errorf("persist session token: %w", err)
	}
	m.sess.Set(resp.AccessToken)

	m.notify(StateAuthenticated)
	return resp.UserID, nil
}

// Logout tells the server to invalidate the session, then tears down local
// state. The remote call is best-effort: a failure there never leaves the
// user stuck authenticated locally.
func (m *Manager) Logout(ctx context.Context) error {
	if _, ok := m.sess.Current(); ok {
		_ = m.svc.Logout(ctx)
	}
	return m.teardown()
}

// ForceTeardown clears local session state without a remote call. It is
// installed as the client's unauthorized hook, so any 401 on any operation
// triggers the same transition as an explicit logout.
func (m *Manager) ForceTeardown() {
	_ = m.teardown()
}

func (m *Manager) teardown() error {
	_, wasAuthenticated := m.sess.Current()

	err := m.store.Delete(secrets.SessionTokenKey)
	if err != nil && !errors.Is(err, secrets.ErrNotFound) {
		err = fmt.Errorf("remove persisted token: %w", err)
	} else {
		err = nil
	}

	// Clear the cache even if the durable delete failed; the process must
	// not keep operating on a session the server may have already killed.
	m.sess.Clear()

	if wasAuthenticated {
		m.notify(StateUnauthenticated)
	}
	return err
}
