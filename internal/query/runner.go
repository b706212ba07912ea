// ABOUTME: Fetch orchestration keyed by filter state
// ABOUTME: Caches within a staleness window and commits only the most recently initiated fetch

package query

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultStaleTime is the window within which cached results are served
// without refetching, matching the original client's five-minute policy.
const DefaultStaleTime = 5 * time.Minute

// ErrDisabled is returned when a fetch runs with its precondition false
// (typically: not authenticated). No network call is made.
var ErrDisabled = errors.New("query disabled")

// ErrSuperseded is returned to a fetch whose filter state was replaced
// by a newer fetch for the same resource while it was in flight. Its
// result is discarded, never committed.
var ErrSuperseded = errors.New("query superseded by a newer fetch")

// Runner orchestrates fetches for all screens. Results are cached by
// key; per resource, only the most recently initiated fetch may commit,
// so a slow response to an old filter state can never overwrite a fast
// response to a newer one.
type Runner struct {
	cache *Cache
	group singleflight.Group

	mu      sync.Mutex
	seq     map[string]uint64 // per resource, last initiated fetch
	lastKey map[string]string // per resource, key of that fetch
}

// NewRunner creates a runner with the given staleness window
func NewRunner(staleTime time.Duration) *Runner {
	if staleTime <= 0 {
		staleTime = DefaultStaleTime
	}
	return &Runner{
		cache:   NewCache(staleTime),
		seq:     make(map[string]uint64),
		lastKey: make(map[string]string),
	}
}

// begin registers a fetch initiation for the resource and returns its
// sequence number. Re-running the same key does not advance the
// sequence: identical concurrent fetches share one call and both
// commit, only a different filter state supersedes an in-flight one.
func (r *Runner) begin(resource, key string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastKey[resource] != key {
		r.seq[resource]++
		r.lastKey[resource] = key
	}
	return r.seq[resource]
}

// latest reports the most recently initiated fetch for the resource
func (r *Runner) latest(resource string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq[resource]
}

// Invalidate drops every cached query for the resource, forcing the
// next read to refetch. Coarse by design: no key-specific invalidation.
func (r *Runner) Invalidate(resource string) {
	r.cache.ClearPrefix(resource + "?")
}

// Fetch runs one keyed query. enabled=false short-circuits with
// ErrDisabled before any network activity; the caller re-runs the query
// once its precondition turns true. A fresh cached result for the key
// is returned without refetching. Concurrent fetches for the identical
// key share one network call.
func Fetch[T any](ctx context.Context, r *Runner, key Key, enabled bool, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if !enabled {
		return zero, ErrDisabled
	}

	// Register the initiation before consulting the cache: a cache hit
	// still makes this key the most recently requested state for the
	// resource, so an older in-flight fetch must not commit over it.
	ks := key.String()
	token := r.begin(key.Resource, ks)

	if cached, ok := r.cache.Get(ks); ok {
		return cached.(T), nil
	}

	result, err, _ := r.group.Do(ks, func() (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}

	if token != r.latest(key.Resource) {
		// A newer filter state took over while this fetch was in
		// flight; logical cancellation, the response is suppressed.
		return zero, ErrSuperseded
	}

	r.cache.Set(ks, result.(T))
	return result.(T), nil
}

// Mutation describes one optimistic write. Apply runs before the
// network call; Revert restores the pre-update snapshot when the call
// fails. Resource names the coarse invalidation target.
type Mutation struct {
	Resource string
	Apply    func()
	Revert   func()
}

// Mutate runs the two-phase optimistic update: apply locally, await the
// remote call, revert on failure. A successful mutation invalidates all
// cached queries for the resource.
func (r *Runner) Mutate(ctx context.Context, m Mutation, do func(context.Context) error) error {
	if m.Apply != nil {
		m.Apply()
	}
	if err := do(ctx); err != nil {
		if m.Revert != nil {
			m.Revert()
		}
		return err
	}
	r.Invalidate(m.Resource)
	return nil
}
