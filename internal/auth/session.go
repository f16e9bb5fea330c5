package auth

import (
	"sync"
	"time"
)

// Session is the opaque auth state bound to a sid cookie: a bearer token for
// the product API plus the group claims that gate admin routes. Cart
// operations never touch it.
type Session struct {
	ID      string
	Email   string
	IDToken string
	Groups  []string
	Expires time.Time
}

func (s *Session) InGroup(group string) bool {
	if s == nil {
		return false
	}
	for _, g := range s.Groups {
		if g == group {
			return true
		}
	}
	return false
}

func (s *Session) Expired() bool {
	return !s.Expires.IsZero() && time.Now().After(s.Expires)
}

// registry is the in-process session table. Sessions die with the process;
// the durable state worth keeping across restarts is the cart, not the login.
type registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func newRegistry() *registry {
	return &registry{sessions: map[string]*Session{}}
}

func (r *registry) put(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

func (r *registry) get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.sessions[id]
	if s == nil {
		return nil
	}
	if s.Expired() {
		delete(r.sessions, id)
		return nil
	}
	return s
}

func (r *registry) drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}
