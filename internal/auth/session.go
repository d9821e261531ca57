package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/passvault/internal/logging"
)

// EventKind discriminates session lifecycle events.
type EventKind int

const (
	EventAuthenticated EventKind = iota
	EventSignedOut
)

// Event is one session lifecycle notification. Identity is set only for
// EventAuthenticated.
type Event struct {
	Kind     EventKind
	Identity *Identity
}

// ErrAlreadyObserving is returned when Observe is called more than once.
var ErrAlreadyObserving = errors.New("session already observed")

// SessionManager owns the one live subscription to the identity provider and
// republishes each upstream callback as exactly one Event. Events are emitted
// on the upstream callback's goroutine; the channel carries a small buffer so
// the initial callback fired from inside Subscribe does not block.
type SessionManager struct {
	provider Provider
	log      logging.Logger

	events chan Event

	mu       sync.Mutex
	current  *Identity
	observed bool
	lastErr  error
}

func NewSessionManager(provider Provider, log logging.Logger) *SessionManager {
	return &SessionManager{
		provider: provider,
		log:      log,
		events:   make(chan Event, 1),
	}
}

// Observe registers the upstream subscription. It is not re-entrant: a second
// call returns ErrAlreadyObserving. A provider error during registration is
// returned as-is and leaves the manager's state untouched.
func (m *SessionManager) Observe() error {
	m.mu.Lock()
	if m.observed {
		m.mu.Unlock()
		return ErrAlreadyObserving
	}
	m.observed = true
	m.mu.Unlock()

	return m.provider.Subscribe(m.onChange, m.onError)
}

// Events exposes the lifecycle event stream. The composition root reads it
// and reacts by constructing or discarding a credential store.
func (m *SessionManager) Events() <-chan Event {
	return m.events
}

// CurrentIdentity returns a copy of the last known identity, or nil when
// signed out.
func (m *SessionManager) CurrentIdentity() *Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	id := *m.current
	return &id
}

// Err returns the last subscription error, if any.
func (m *SessionManager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

func (m *SessionManager) onChange(p *Principal) {
	if p == nil {
		m.mu.Lock()
		m.current = nil
		m.mu.Unlock()
		m.log.Info(context.Background(), "session signed out")
		m.events <- Event{Kind: EventSignedOut}
		return
	}

	id := identityFromPrincipal(p)
	m.mu.Lock()
	m.current = &id
	m.mu.Unlock()
	m.log.Info(context.Background(), "session authenticated", "uid", id.UID, "provider", string(id.Provider))
	m.events <- Event{Kind: EventAuthenticated, Identity: &id}
}

// onError records a subscription failure. The last known identity is kept:
// a provider outage does not imply sign-out.
func (m *SessionManager) onError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
	m.log.Error(context.Background(), "auth subscription error", "error", err)
}
