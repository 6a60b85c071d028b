package cart

import (
	"sync"
	"time"
)

type sessionEntry struct {
	cart     *Cart
	lastSeen time.Time
}

// Store keeps one in-memory cart per session id. Nothing is persisted: a cart
// disappears when its session is dropped or expires.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	onEvent  func(sessionID string, ev Event)
	now      func() time.Time
}

// NewStore creates an empty store. onEvent, when not nil, observes every cart
// the store creates.
func NewStore(onEvent func(sessionID string, ev Event)) *Store {
	return &Store{
		sessions: make(map[string]*sessionEntry),
		onEvent:  onEvent,
		now:      time.Now,
	}
}

// Get returns the cart for sessionID, creating an empty one on first use.
func (s *Store) Get(sessionID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[sessionID]; ok {
		sess.lastSeen = s.now()
		return sess.cart
	}
	c := New()
	if s.onEvent != nil {
		c.Observe(func(ev Event) { s.onEvent(sessionID, ev) })
	}
	s.sessions[sessionID] = &sessionEntry{cart: c, lastSeen: s.now()}
	return c
}

// Drop discards the cart of sessionID. It reports whether a cart existed.
func (s *Store) Drop(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return false
	}
	delete(s.sessions, sessionID)
	return true
}

// Expire drops carts that have not been used for longer than idle and
// returns how many were dropped.
func (s *Store) Expire(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle)
	dropped := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
