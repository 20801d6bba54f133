// Package session keeps one cart store per booking session. Carts are
// in-memory only: created on demand, evicted after a period of inactivity,
// and dropped on checkout. Persisting carts across sessions is explicitly
// out of scope.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/luminaspa/booking-cart/internal/domain/cart"
)

// DefaultTTL is how long an idle session survives when none is configured.
const DefaultTTL = 2 * time.Hour

type entry struct {
	cart     *cart.Store
	lastSeen time.Time
}

// Store is a uuid-keyed registry of session carts with TTL eviction.
type Store struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewStore creates a session store. A non-positive ttl falls back to
// DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Create registers a new empty cart and returns its session id.
func (s *Store) Create() string {
	id := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &entry{
		cart:     cart.NewStore(),
		lastSeen: s.now(),
	}
	return id
}

// Cart returns the cart for the given session id, refreshing its idle
// timer. The second return is false when the session does not exist or
// has been evicted.
func (s *Store) Cart(id string) (*cart.Store, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.now()
	return e.cart, true
}

// Delete drops the session, if present.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// StartJanitor launches a background goroutine that evicts idle sessions
// every interval. It stops when ctx is cancelled.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.evict(now)
			}
		}
	}()
}

// evict removes sessions idle longer than the TTL.
func (s *Store) evict(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) >= s.ttl {
			delete(s.sessions, id)
		}
	}
}
