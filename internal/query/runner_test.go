// ABOUTME: Tests for the query runner's caching, dedup, and commit rules
// ABOUTME: Exercises the stale-while-fetching races with blocking fetch functions

package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetch_Disabled(t *testing.T) {
	r := NewRunner(time.Minute)
	var calls int32

	_, err := Fetch(context.Background(), r, NewKey(ResourceTickets, nil), false, func(ctx context.Context) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		return []string{"x"}, nil
	})
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("expected no fetch call while disabled")
	}
}

func TestFetch_ServesFreshCache(t *testing.T) {
	r := NewRunner(time.Minute)
	key := NewKey(ResourceTickets, map[string]string{"status": "OPEN"})
	var calls int32

	fn := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "payload", nil
	}

	for i := 0; i < 3; i++ {
		got, err := Fetch(context.Background(), r, key, true, fn)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "payload" {
			t.Errorf("expected payload, got %q", got)
		}
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("expected 1 fetch within the staleness window, got %d", calls)
	}
}

func TestFetch_ExpiredCacheRefetches(t *testing.T) {
	r := NewRunner(10 * time.Millisecond)
	key := NewKey(ResourceTickets, nil)
	var calls int32

	fn := func(ctx context.Context) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	}

	if _, err := Fetch(context.Background(), r, key, true, fn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	got, err := Fetch(context.Background(), r, key, true, fn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2 {
		t.Errorf("expected refetch after expiry, got result %d", got)
	}
}

func TestFetch_ErrorNotCached(t *testing.T) {
	r := NewRunner(time.Minute)
	key := NewKey(ResourceAgents, nil)
	var calls int32

	boom := errors.New("backend down")
	_, err := Fetch(context.Background(), r, key, true, func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fetch error, got %v", err)
	}

	got, err := Fetch(context.Background(), r, key, true, func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "recovered" {
		t.Errorf("expected retry to run, got %q", got)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

// The slow first fetch (F1) must not overwrite the result of a newer
// fetch (F2) started while F1 was in flight. F1 comes back superseded
// and uncommitted.
func TestFetch_SlowOldFetchSuperseded(t *testing.T) {
	r := NewRunner(time.Minute)
	keyOld := NewKey(ResourceTickets, map[string]string{"status": "OPEN"})
	keyNew := NewKey(ResourceTickets, map[string]string{"status": "CLOSED"})

	f1Started := make(chan struct{})
	f1Release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	var f1Err error
	go func() {
		defer wg.Done()
		_, f1Err = Fetch(context.Background(), r, keyOld, true, func(ctx context.Context) (string, error) {
			close(f1Started)
			<-f1Release
			return "old-data", nil
		})
	}()

	<-f1Started
	got, err := Fetch(context.Background(), r, keyNew, true, func(ctx context.Context) (string, error) {
		return "new-data", nil
	})
	if err != nil {
		t.Fatalf("unexpected error on newer fetch: %v", err)
	}
	if got != "new-data" {
		t.Errorf("expected new-data, got %q", got)
	}

	close(f1Release)
	wg.Wait()
	if !errors.Is(f1Err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded for the older fetch, got %v", f1Err)
	}

	// The superseded result must not have been committed.
	if _, ok := r.cache.Get(keyOld.String()); ok {
		t.Error("expected superseded result left uncached")
	}
	if cached, ok := r.cache.Get(keyNew.String()); !ok || cached.(string) != "new-data" {
		t.Error("expected newest result cached")
	}
}

// Switching back to a cached filter state must still count as the most
// recent request: an older fetch resolving afterwards may not commit.
func TestFetch_CacheHitSupersedesInFlightFetch(t *testing.T) {
	r := NewRunner(time.Minute)
	keyCached := NewKey(ResourceTickets, map[string]string{"status": "CLOSED"})
	keySlow := NewKey(ResourceTickets, map[string]string{"status": "OPEN"})

	// Prime the cache for the first filter state.
	if _, err := Fetch(context.Background(), r, keyCached, true, func(ctx context.Context) (string, error) {
		return "closed-data", nil
	}); err != nil {
		t.Fatalf("unexpected error priming cache: %v", err)
	}

	slowStarted := make(chan struct{})
	slowRelease := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	var slowErr error
	go func() {
		defer wg.Done()
		_, slowErr = Fetch(context.Background(), r, keySlow, true, func(ctx context.Context) (string, error) {
			close(slowStarted)
			<-slowRelease
			return "open-data", nil
		})
	}()

	// Switch back to the cached state while the slow fetch is in flight.
	<-slowStarted
	got, err := Fetch(context.Background(), r, keyCached, true, func(ctx context.Context) (string, error) {
		t.Error("expected the cached state to be served without refetching")
		return "", nil
	})
	if err != nil {
		t.Fatalf("unexpected error on cache hit: %v", err)
	}
	if got != "closed-data" {
		t.Errorf("expected cached data, got %q", got)
	}

	close(slowRelease)
	wg.Wait()
	if !errors.Is(slowErr, ErrSuperseded) {
		t.Fatalf("expected the stale in-flight fetch superseded, got %v", slowErr)
	}
	if _, ok := r.cache.Get(keySlow.String()); ok {
		t.Error("expected the superseded result left uncached")
	}
}

func TestFetch_ConcurrentIdenticalKeysShareOneCall(t *testing.T) {
	r := NewRunner(time.Minute)
	key := NewKey(ResourceDepartments, nil)

	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32

	fn := func(ctx context.Context) (string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		<-release
		return "shared", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := Fetch(context.Background(), r, key, true, fn)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			results[i] = got
		}(i)
		if i == 0 {
			<-started
		}
	}

	// Give the second goroutine time to join the in-flight call.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("expected 1 shared call, got %d", calls)
	}
	for i, got := range results {
		if got != "shared" {
			t.Errorf("caller %d: expected shared, got %q", i, got)
		}
	}
}

func TestInvalidate_ForcesRefetch(t *testing.T) {
	r := NewRunner(time.Minute)
	keyA := NewKey(ResourceTickets, map[string]string{"status": "OPEN"})
	keyB := NewKey(ResourceTickets, map[string]string{"status": "CLOSED"})
	keyOther := NewKey(ResourceCustomers, nil)
	var calls int32

	fn := func(ctx context.Context) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	}

	for _, key := range []Key{keyA, keyB, keyOther} {
		if _, err := Fetch(context.Background(), r, key, true, fn); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	r.Invalidate(ResourceTickets)

	got, err := Fetch(context.Background(), r, keyA, true, fn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 4 {
		t.Error("expected ticket query to refetch after invalidation")
	}
	// Other resources keep their cached entries.
	if _, ok := r.cache.Get(keyOther.String()); !ok {
		t.Error("expected customer cache untouched by ticket invalidation")
	}
}

func TestMutate_SuccessInvalidatesResource(t *testing.T) {
	r := NewRunner(time.Minute)
	key := NewKey(ResourceTickets, nil)
	r.cache.Set(key.String(), "stale")

	applied := false
	reverted := false
	err := r.Mutate(context.Background(), Mutation{
		Resource: ResourceTickets,
		Apply:    func() { applied = true },
		Revert:   func() { reverted = true },
	}, func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applied {
		t.Error("expected optimistic apply to run")
	}
	if reverted {
		t.Error("expected no revert on success")
	}
	if _, ok := r.cache.Get(key.String()); ok {
		t.Error("expected resource cache invalidated after mutation")
	}
}

func TestMutate_FailureRevertsAndKeepsCache(t *testing.T) {
	r := NewRunner(time.Minute)
	key := NewKey(ResourceTickets, nil)
	r.cache.Set(key.String(), "current")

	boom := errors.New("Invalid status transition")
	order := []string{}
	err := r.Mutate(context.Background(), Mutation{
		Resource: ResourceTickets,
		Apply:    func() { order = append(order, "apply") },
		Revert:   func() { order = append(order, "revert") },
	}, func(ctx context.Context) error {
		order = append(order, "call")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the backend error back, got %v", err)
	}
	if len(order) != 3 || order[0] != "apply" || order[1] != "call" || order[2] != "revert" {
		t.Errorf("expected apply, call, revert; got %v", order)
	}
	if _, ok := r.cache.Get(key.String()); !ok {
		t.Error("expected cache untouched after failed mutation")
	}
}
