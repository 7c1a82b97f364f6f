package services

import (
	"time"

	"github.com/pocketbase/pocketbase/tools/security"
	"github.com/pocketbase/pocketbase/tools/store"
)

// sessionIDLength is the length of the random session identifier.
const sessionIDLength = 40

// DefaultSessionTTL is how long an idle session is kept.
const DefaultSessionTTL = 2 * time.Hour

// SessionRegistry keeps every live session in memory, keyed by session id.
type SessionRegistry struct {
	sessions *store.Store[string, *Session]
	now      func() time.Time
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: store.New[string, *Session](nil),
		now:      time.Now,
	}
}

// Get returns the session with the given id, touching it on success.
func (r *SessionRegistry) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	s, ok := r.sessions.GetOk(id)
	if !ok {
		return nil, false
	}
	s.Touch(r.now())
	return s, true
}

// GetOrCreate returns the session for id, or starts a new one when id is
// unknown. created reports whether a new session was started.
func (r *SessionRegistry) GetOrCreate(id string) (s *Session, created bool) {
	if s, ok := r.Get(id); ok {
		return s, false
	}
	s = NewSession(security.RandomString(sessionIDLength), r.now())
	r.sessions.Set(s.ID, s)
	return s, true
}

// Remove discards a session.
func (r *SessionRegistry) Remove(id string) {
	r.sessions.Remove(id)
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	return r.sessions.Length()
}

// PurgeIdle removes sessions idle for longer than ttl and returns how many
// were removed.
func (r *SessionRegistry) PurgeIdle(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)
	removed := 0
	for id, s := range r.sessions.GetAll() {
		if s.LastSeen().Before(cutoff) {
			r.sessions.Remove(id)
			removed++
		}
	}
	return removed
}
