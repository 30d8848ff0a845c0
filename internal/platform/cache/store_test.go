package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_WithinTTL(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return "payload", nil
	}

	got, err := store.GetOrLoad(context.Background(), "k1", 30*time.Second, loader)
	if err != nil {
		t.Fatalf("GetOrLoad error: %v", err)
	}
	if got != "payload" {
		t.Fatalf("unexpected payload: %v", got)
	}

	now = now.Add(10 * time.Second)
	if _, err := store.GetOrLoad(context.Background(), "k1", 30*time.Second, loader); err != nil {
		t.Fatalf("GetOrLoad error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one loader call within ttl, got %d", calls)
	}

	now = now.Add(25 * time.Second)
	if _, err := store.GetOrLoad(context.Background(), "k1", 30*time.Second, loader); err != nil {
		t.Fatalf("GetOrLoad error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected reload after ttl expiry, got %d calls", calls)
	}
}

func TestStore_GetOrLoad_ErrorNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)

	boom := errors.New("feed down")
	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return "recovered", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k1", time.Minute, loader); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected no entry written after failure")
	}

	got, err := store.GetOrLoad(context.Background(), "k1", time.Minute, loader)
	if err != nil {
		t.Fatalf("GetOrLoad error: %v", err)
	}
	if got != "recovered" {
		t.Fatalf("unexpected payload: %v", got)
	}
}

func TestStore_RetentionSweep(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "old", "v1")
	now = now.Add(2 * time.Minute)
	store.Set(context.Background(), "fresh", "v2")

	// Any access prunes entries past the retention ceiling.
	if _, ok := store.Get(context.Background(), "fresh", time.Minute); !ok {
		t.Fatalf("expected fresh entry hit")
	}
	if store.Len() != 1 {
		t.Fatalf("expected old entry swept, have %d entries", store.Len())
	}
}

func TestStore_GetOrLoad_Coalesces(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls int32

	const workers = 10
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			_, err := store.GetOrLoad(context.Background(), "k1", time.Minute, func(context.Context) (any, error) {
				atomic.AddInt32(&calls, 1)
				time.Sleep(20 * time.Millisecond)
				return "shared", nil
			})
			if err != nil {
				t.Errorf("GetOrLoad error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected one coalesced loader call, got %d", got)
	}
}
