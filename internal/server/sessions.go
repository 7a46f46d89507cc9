package server

import (
	"context"
	"sync"
	"time"

	"leettrack/internal/tracker"
)

// sessionTTL is how long an idle user keeps an open session.
const sessionTTL = 30 * time.Minute

type openSession struct {
	session *tracker.Session
	expires time.Time
}

// sessionRegistry keeps one tracker.Session per signed-in user so that the
// settings state and its connectivity subscription outlive a request.
// Sessions idle for longer than sessionTTL are closed.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*openSession
	open     func(ctx context.Context, identity tracker.Identity) *tracker.Session
	now      func() time.Time
}

func newSessionRegistry(open func(ctx context.Context, identity tracker.Identity) *tracker.Session) *sessionRegistry {
	return &sessionRegistry{
		sessions: make(map[string]*openSession),
		open:     open,
		now:      time.Now,
	}
}

// get returns the session for identity, opening it on first use. Opening
// runs a settings fetch against the remote, so it happens outside the lock.
func (r *sessionRegistry) get(ctx context.Context, identity tracker.Identity) *tracker.Session {
	r.mu.Lock()
	now := r.now()
	expired := r.sweep(now)
	if entry, ok := r.sessions[identity.UserID]; ok {
		entry.expires = now.Add(sessionTTL)
		r.mu.Unlock()
		closeSessions(expired)
		return entry.session
	}
	r.mu.Unlock()
	closeSessions(expired)

	s := r.open(ctx, identity)

	r.mu.Lock()
	if entry, ok := r.sessions[identity.UserID]; ok {
		// Another request opened it first.
		entry.expires = r.now().Add(sessionTTL)
		r.mu.Unlock()
		s.Close()
		return entry.session
	}
	r.sessions[identity.UserID] = &openSession{session: s, expires: r.now().Add(sessionTTL)}
	r.mu.Unlock()
	return s
}

// sweep removes expired sessions and returns them for closing. r.mu must
// be held.
func (r *sessionRegistry) sweep(now time.Time) []*tracker.Session {
	var expired []*tracker.Session
	for id, entry := range r.sessions {
		if now.After(entry.expires) {
			expired = append(expired, entry.session)
			delete(r.sessions, id)
		}
	}
	return expired
}

func (r *sessionRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// closeAll closes every open session.
func (r *sessionRegistry) closeAll() {
	r.mu.Lock()
	sessions := make([]*tracker.Session, 0, len(r.sessions))
	for _, entry := range r.sessions {
		sessions = append(sessions, entry.session)
	}
	r.sessions = make(map[string]*openSession)
	r.mu.Unlock()

	closeSessions(sessions)
}

func closeSessions(sessions []*tracker.Session) {
	for _, s := range sessions {
		s.Close()
	}
}
