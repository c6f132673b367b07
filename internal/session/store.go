// Package session owns the authenticated session shared by every command
// and background worker: the bearer token plus the API base URL, treated as
// one atomic unit. It also bridges the trusted token slot on disk into the
// process via a file watcher, and persists the token to the OS keyring.
package session

import (
	"sync"

	"github.com/google/uuid"
)

// Session is the unit of authentication. It is all-or-nothing: a token
// without a base URL (or the reverse) is not a session.
type Session struct {
	Token      string
	APIBaseURL string
}

// Valid reports whether both halves of the session are present.
func (s Session) Valid() bool {
	return s.Token != "" && s.APIBaseURL != ""
}

// EventKind classifies a session change.
type EventKind string

const (
	// SessionEstablished means a valid session became available.
	SessionEstablished EventKind = "established"

	// SessionCleared means the session was removed or became invalid.
	SessionCleared EventKind = "cleared"
)

// Event is delivered to subscribers on every effective session change.
type Event struct {
	Kind    EventKind
	Session Session
}

// Store holds the current session and fans out change events. All methods
// are safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	cur  Session
	subs map[uuid.UUID]chan Event
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{subs: make(map[uuid.UUID]chan Event)}
}

// Current returns a snapshot of the session.
func (st *Store) Current() Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.cur
}

// Set installs a session. Re-installing the session currently held is a
// no-op: no event fires and Set returns false. Subscribers see exactly one
// SessionEstablished per effective change.
func (st *Store) Set(s Session) bool {
	if !s.Valid() {
		return false
	}
	st.mu.Lock()
	if s == st.cur {
		st.mu.Unlock()
		return false
	}
	st.cur = s
	st.publishLocked(Event{Kind: SessionEstablished, Session: s})
	st.mu.Unlock()
	return true
}

// Clear drops the session. Clearing an already-empty store is a no-op.
func (st *Store) Clear() bool {
	st.mu.Lock()
	if st.cur == (Session{}) {
		st.mu.Unlock()
		return false
	}
	st.cur = Session{}
	st.publishLocked(Event{Kind: SessionCleared})
	st.mu.Unlock()
	return true
}

// Subscribe registers for session change events. The returned ID releases
// the subscription via Unsubscribe; leaking it leaks the channel.
func (st *Store) Subscribe() (uuid.UUID, <-chan Event) {
	ch := make(chan Event, 8)
	id := uuid.New()
	st.mu.Lock()
	st.subs[id] = ch
	st.mu.Unlock()
	return id, ch
}

// Unsubscribe releases a subscription and closes its channel.
func (st *Store) Unsubscribe(id uuid.UUID) {
	st.mu.Lock()
	ch, found := st.subs[id]
	if found {
		delete(st.subs, id)
	}
	st.mu.Unlock()
	if found {
		close(ch)
	}
}

// publishLocked delivers without blocking. A subscriber that stopped
// draining loses events rather than wedging the store.
func (st *Store) publishLocked(ev Event) {
	for _, ch := range st.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
