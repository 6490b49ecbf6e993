package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultIdleTimeout = 24 * time.Hour
	sweepInterval      = 1 * time.Minute
)

type entry[V any] struct {
	value    V
	lastSeen time.Time
}

// Store keeps per-visitor state keyed by random session IDs.
// Sessions not looked up for the idle timeout are dropped by a background sweep.
type Store[V any] struct {
	mu      sync.Mutex
	entries map[string]*entry[V]
	factory func() V

	idle      time.Duration
	now       func() time.Time
	sweepDone chan struct{}
	closeOnce sync.Once
}

// StoreOption configures a Store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	idle time.Duration
	now  func() time.Time
}

// WithIdleTimeout replaces the 24 hour idle timeout.
func WithIdleTimeout(d time.Duration) StoreOption {
	return func(c *storeConfig) {
		if d > 0 {
			c.idle = d
		}
	}
}

// WithStoreClock replaces time.Now.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(c *storeConfig) {
		c.now = now
	}
}

// NewStore creates a store that builds new visitor state with factory.
//
// Close must be called on shutdown to stop the background sweep.
func NewStore[V any](factory func() V, opts ...StoreOption) *Store[V] {
	cfg := storeConfig{idle: defaultIdleTimeout, now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Store[V]{
		entries:   make(map[string]*entry[V]),
		factory:   factory,
		idle:      cfg.idle,
		now:       cfg.now,
		sweepDone: make(chan struct{}),
	}
	go s.sweepLoop()
	return s
}

// Create allocates a new session ID with fresh state.
func (s *Store[V]) Create() (string, V) {
	id := uuid.NewString()
	v := s.factory()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = &entry[V]{value: v, lastSeen: s.now()}
	return id, v
}

// Get returns the state for id and marks the session as seen.
func (s *Store[V]) Get(id string) (V, bool) {
	var zero V
	if _, err := uuid.Parse(id); err != nil {
		return zero, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return zero, false
	}
	now := s.now()
	if now.Sub(e.lastSeen) > s.idle {
		delete(s.entries, id)
		return zero, false
	}
	e.lastSeen = now
	return e.value, true
}

// Delete removes id.
func (s *Store[V]) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Len returns the number of live sessions.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store[V]) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.sweepDone:
			return
		}
	}
}

// sweep drops sessions idle for longer than the timeout.
func (s *Store[V]) sweep() {
	cutoff := s.now().Add(-s.idle)

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, id)
		}
	}
}

// Close stops the background sweep. Safe to call multiple times.
func (s *Store[V]) Close() {
	s.closeOnce.Do(func() {
		close(s.sweepDone)
	})
}
