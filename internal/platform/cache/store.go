package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/footpanel/matchsync/internal/platform/resilience"
)

const defaultRetention = time.Minute

type entry struct {
	value    any
	storedAt time.Time
}

// Store memoizes loader results per key. Freshness is decided per call via
// a ttl argument, so one store can back queries with different lifetimes.
// Entries older than the retention ceiling are swept on every access,
// independent of the ttl they were read with.
type Store struct {
	mu        sync.RWMutex
	entries   map[string]entry
	retention time.Duration
	flight    resilience.SingleFlight
	now       func() time.Time
}

func NewStore(retention time.Duration) *Store {
	if retention <= 0 {
		retention = defaultRetention
	}
	return &Store{
		entries:   make(map[string]entry),
		retention: retention,
		now:       time.Now,
	}
}

// Get returns the cached value for key if it was stored within ttl.
func (s *Store) Get(_ context.Context, key string, ttl time.Duration) (any, bool) {
	if key == "" || ttl <= 0 {
		return nil, false
	}

	now := s.now()
	s.sweep(now)

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if now.Sub(e.storedAt) >= ttl {
		return nil, false
	}

	return e.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	now := s.now()
	s.mu.Lock()
	s.entries[key] = entry{value: value, storedAt: now}
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key when fresh, otherwise runs
// loader and stores its result. A loader failure is never cached and
// propagates to every coalesced caller. Concurrent callers for the same
// key share a single loader execution.
func (s *Store) GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key, ttl); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key, ttl); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// Len reports the number of live entries, for tests and diagnostics.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) sweep(now time.Time) {
	s.mu.Lock()
	for key, e := range s.entries {
		if now.Sub(e.storedAt) > s.retention {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}
