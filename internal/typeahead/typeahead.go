// Package typeahead bounds the query volume of keystroke-driven search.
// A Resolver owns one logical search box: rapid successive queries are
// debounced, an identical repeat query reuses the last result instead of
// re-querying, and a response that arrives after a newer query has been
// issued is discarded rather than applied.
//
// This replaces ad hoc timer/flag bookkeeping with an explicit request-token
// model: every query takes a fresh token, and only the holder of the current
// token may publish its result.
package typeahead

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSuperseded is returned when a newer query was issued before this one
// finished. The caller drops the result; nothing was cached.
var ErrSuperseded = errors.New("typeahead: query superseded by newer input")

// Func fetches results for a query, typically hitting the database.
type Func[T any] func(ctx context.Context, query string) (T, error)

// Options tune a Resolver.
type Options struct {
	// Debounce is how long a query waits for further input before the fetch
	// is issued. Zero disables debouncing.
	Debounce time.Duration
	// TTL is how long a fetched result satisfies an identical repeat query.
	TTL time.Duration
}

// DefaultOptions matches the historical intake-form behaviour: ~400ms of
// input inactivity before querying, results reused for a short window.
func DefaultOptions() Options {
	return Options{Debounce: 400 * time.Millisecond, TTL: 30 * time.Second}
}

type cacheEntry[T any] struct {
	val T
	at  time.Time
}

// Resolver is safe for concurrent use.
type Resolver[T any] struct {
	fetch Func[T]
	opts  Options

	mu        sync.Mutex
	seq       uint64
	supersede chan struct{} // closed when a newer query arrives
	cache     map[string]cacheEntry[T]
}

func New[T any](fetch Func[T], opts Options) *Resolver[T] {
	return &Resolver[T]{
		fetch: fetch,
		opts:  opts,
		cache: make(map[string]cacheEntry[T]),
	}
}

// Get resolves a query. It may return a cached result for an identical
// recent query, ErrSuperseded if newer input arrived first, a context error,
// or whatever the fetch function returned.
func (r *Resolver[T]) Get(ctx context.Context, query string) (T, error) {
	var zero T

	r.mu.Lock()
	// Take the token: every call supersedes the one before it.
	r.seq++
	token := r.seq
	if r.supersede != nil {
		close(r.supersede)
	}
	mine := make(chan struct{})
	r.supersede = mine

	// De-duplication: identical recent query short-circuits the debounce
	// and the fetch entirely.
	if e, ok := r.cache[query]; ok && (r.opts.TTL == 0 || time.Since(e.at) < r.opts.TTL) {
		r.mu.Unlock()
		return e.val, nil
	}
	r.mu.Unlock()

	if r.opts.Debounce > 0 {
		timer := time.NewTimer(r.opts.Debounce)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-mine:
			return zero, ErrSuperseded
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	val, err := r.fetch(ctx, query)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seq != token {
		// Stale-response guard: newer input exists, discard on arrival.
		return zero, ErrSuperseded
	}
	if err != nil {
		return zero, err
	}
	r.cache[query] = cacheEntry[T]{val: val, at: time.Now()}
	return val, nil
}

// Cancel invalidates any in-flight query, e.g. when the form is abandoned.
func (r *Resolver[T]) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if r.supersede != nil {
		close(r.supersede)
		r.supersede = nil
	}
}

// Flush drops all cached results.
func (r *Resolver[T]) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]cacheEntry[T])
}

// Group keys independent Resolvers, one per search box instance, so that
// typing in one user's supplier field never supersedes another's. Idle
// resolvers are purged to keep the map from growing unbounded.
type Group[T any] struct {
	fetch Func[T]
	opts  Options

	mu       sync.Mutex
	members  map[string]*groupMember[T]
	maxIdle  time.Duration
	lastScan time.Time
}

type groupMember[T any] struct {
	r        *Resolver[T]
	lastUsed time.Time
}

func NewGroup[T any](fetch Func[T], opts Options) *Group[T] {
	return &Group[T]{
		fetch:   fetch,
		opts:    opts,
		members: make(map[string]*groupMember[T]),
		maxIdle: 10 * time.Minute,
	}
}

// Get resolves query for the named search box (typically a session or
// client-generated field ID).
func (g *Group[T]) Get(ctx context.Context, key, query string) (T, error) {
	g.mu.Lock()
	m, ok := g.members[key]
	if !ok {
		m = &groupMember[T]{r: New(g.fetch, g.opts)}
		g.members[key] = m
	}
	m.lastUsed = time.Now()
	g.purgeLocked()
	g.mu.Unlock()

	return m.r.Get(ctx, query)
}

func (g *Group[T]) purgeLocked() {
	now := time.Now()
	if now.Sub(g.lastScan) < g.maxIdle {
		return
	}
	g.lastScan = now
	for k, m := range g.members {
		if now.Sub(m.lastUsed) > g.maxIdle {
			delete(g.members, k)
		}
	}
}
