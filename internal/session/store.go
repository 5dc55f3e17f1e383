// Package session keeps one checkout form per visitor between requests.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kozymacro/papara-checkout/internal/checkout"
	"github.com/samber/lo"
)

const cleanupInterval = 1 * time.Minute

// Factory builds the form for a new session.
type Factory func() (*checkout.Form, error)

type entry struct {
	form     *checkout.Form
	lastSeen time.Time
}

// Store is an in-memory session store with idle expiry.
type Store struct {
	ttl         time.Duration
	factory     Factory
	entries     map[string]*entry
	mu          sync.Mutex
	cleanupDone chan struct{}
	closeOnce   sync.Once
	now         func() time.Time
}

// New creates a store whose sessions expire after ttl without access.
//
// Close() must be called when shutting down to stop the cleanup goroutine.
func New(ttl time.Duration, factory Factory) (*Store, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	if factory == nil {
		return nil, errors.New("form factory is required")
	}

	s := &Store{
		ttl:         ttl,
		factory:     factory,
		entries:     make(map[string]*entry),
		cleanupDone: make(chan struct{}),
		now:         time.Now,
	}

	go s.cleanupLoop()

	slog.Info("session store initialized", "ttl", ttl.String())

	return s, nil
}

// Get returns the form for id and refreshes its expiry.
func (s *Store) Get(id string) (*checkout.Form, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.now()
	return e.form, true
}

// Create starts a new session and returns its id and form.
func (s *Store) Create() (string, *checkout.Form, error) {
	form, err := s.factory()
	if err != nil {
		return "", nil, fmt.Errorf("create form: %w", err)
	}

	id := uuid.NewString()

	s.mu.Lock()
	s.entries[id] = &entry{form: form, lastSeen: s.now()}
	s.mu.Unlock()

	return id, form, nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.cleanupDone:
			return
		}
	}
}

// cleanup drops sessions idle for longer than the ttl.
func (s *Store) cleanup() {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	expired := lo.PickBy(s.entries, func(_ string, e *entry) bool {
		return e.lastSeen.Before(cutoff)
	})
	for id := range expired {
		delete(s.entries, id)
	}
	s.mu.Unlock()

	for _, e := range expired {
		e.form.Stop()
	}
	if len(expired) > 0 {
		slog.Debug("expired checkout sessions", "count", len(expired))
	}
}

// Close stops the background cleanup goroutine. Safe to call multiple times.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.cleanupDone)
	})
}
