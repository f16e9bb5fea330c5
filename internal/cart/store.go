package cart

import (
	"encoding/json"
	"sync"

	"livingdead/internal/domain"
	"livingdead/internal/log"
)

// Storage is the durable backend for cart state. Load returns (nil, nil) when
// the key has never been written.
type Storage interface {
	Load(key string) ([]byte, error)
	Save(key string, value []byte) error
	Delete(key string) error
}

// Store funnels every cart mutation through the reducer, one session at a
// time. The in-memory state is the source of truth for the session; a failed
// persist is logged and otherwise ignored, never rolled back.
type Store struct {
	mu      sync.Mutex
	storage Storage
	states  map[string]State
}

func NewStore(storage Storage) *Store {
	return &Store{storage: storage, states: map[string]State{}}
}

// Get returns the current cart for a session, hydrating it from storage on
// first touch. Malformed or missing persisted data yields an empty cart,
// never an error.
func (s *Store) Get(sessionID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(sessionID)
}

func (s *Store) AddItem(sessionID string, p domain.Product, v *domain.Variant, quantity int) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := addItem(s.state(sessionID), p, v, quantity)
	s.commit(sessionID, next)
	return next
}

// RemoveItem drops the line with the given key; an unknown key is a no-op.
func (s *Store) RemoveItem(sessionID, key string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := removeItem(s.state(sessionID), key)
	s.commit(sessionID, next)
	return next
}

// SetQuantity overwrites a line's quantity. A quantity of zero or less
// removes the line; an unknown key is a no-op. The captured price is never
// touched.
func (s *Store) SetQuantity(sessionID, key string, quantity int) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := setQuantity(s.state(sessionID), key, quantity)
	s.commit(sessionID, next)
	return next
}

// Clear resets the session's cart and erases the persisted copy.
func (s *Store) Clear(sessionID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := emptyState()
	s.states[sessionID] = next
	if err := s.storage.Delete(storageKey(sessionID)); err != nil {
		log.Error(nil, "cart.persist.clear", err, map[string]any{"session": sessionID})
	}
	return next
}

// LineFor looks up the line the same way AddItem would key it. Used by the
// UI for "already in cart" state; has no side effects.
func (s *Store) LineFor(sessionID, productID string, v *domain.Variant) (Line, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := LineKey(productID, v)
	for _, it := range s.state(sessionID).Items {
		if it.Key == key {
			return it, true
		}
	}
	return Line{}, false
}

type Summary struct {
	ItemCount  int
	TotalValue float64
	Empty      bool
}

func (s *Store) Summarize(sessionID string) Summary {
	st := s.Get(sessionID)
	return Summary{ItemCount: st.TotalItems, TotalValue: st.TotalAmount, Empty: len(st.Items) == 0}
}

// state must be called with mu held.
func (s *Store) state(sessionID string) State {
	if st, ok := s.states[sessionID]; ok {
		return st
	}
	st := s.hydrate(sessionID)
	s.states[sessionID] = st
	return st
}

func (s *Store) hydrate(sessionID string) State {
	blob, err := s.storage.Load(storageKey(sessionID))
	if err != nil {
		log.Error(nil, "cart.load", err, map[string]any{"session": sessionID})
		return emptyState()
	}
	if len(blob) == 0 {
		return emptyState()
	}
	var st State
	if err := json.Unmarshal(blob, &st); err != nil || st.Items == nil {
		log.Security(nil, "cart.load.malformed", map[string]any{"session": sessionID})
		return emptyState()
	}
	return st
}

// commit must be called with mu held.
func (s *Store) commit(sessionID string, st State) {
	s.states[sessionID] = st
	blob, err := json.Marshal(st)
	if err != nil {
		log.Error(nil, "cart.persist", err, map[string]any{"session": sessionID})
		return
	}
	if err := s.storage.Save(storageKey(sessionID), blob); err != nil {
		log.Error(nil, "cart.persist", err, map[string]any{"session": sessionID})
	}
}

func storageKey(sessionID string) string { return "cart:" + sessionID }
