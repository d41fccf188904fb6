package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-lotse/pkg/answers"
)

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("server: session not found")

// Session is the state of one filer between requests.
type Session struct {
	ID      string
	Answers answers.Store
	// CSRF is the token every submission must echo.
	CSRF string
	// Flash holds the message key of the last redirect until it is shown.
	Flash   string
	Expires time.Time
}

// SessionStore keeps sessions between requests.
type SessionStore interface {
	Get(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, session Session) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore is a SessionStore that lives in process memory. Expired
// sessions are dropped when they are next looked up or on Sweep.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time
}

var _ SessionStore = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Get returns a copy of the session called id.
func (m *MemoryStore) Get(ctx context.Context, id string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if !session.Expires.IsZero() && m.now().After(session.Expires) {
		delete(m.sessions, id)
		return Session{}, ErrSessionNotFound
	}
	return session, nil
}

// Save stores session, replacing any previous state.
func (m *MemoryStore) Save(ctx context.Context, session Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if session.ID == "" {
		return errors.New("server: session without id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session
	return nil
}

// Delete removes the session called id.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Sweep drops every expired session and reports how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, session := range m.sessions {
		if !session.Expires.IsZero() && now.After(session.Expires) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func newSession(ttl time.Duration, now time.Time) Session {
	return Session{
		ID:      uuid.NewString(),
		Answers: answers.New(nil),
		CSRF:    uuid.NewString(),
		Expires: now.Add(ttl),
	}
}
