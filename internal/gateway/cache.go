package gateway

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// DefaultStaleTime is how long a stored value counts as fresh.
const DefaultStaleTime = 5 * time.Minute

// Status is the request status of a cache entry.
type Status int

// Entry statuses.
const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Snapshot is a point-in-time view of a cache entry. Loading (Fetching) and data
// presence (HasData) are independent: a stale entry is served while it refetches.
type Snapshot[T any] struct {
	Data      T
	Status    Status
	Fetching  bool
	HasData   bool
	Stale     bool
	Err       error
	UpdatedAt time.Time
}

// Loading reports whether there is nothing to show yet because the first fetch runs.
func (s Snapshot[T]) Loading() bool {
	return !s.HasData && s.Fetching
}

// FetchFunc loads the value of one key.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// CacheOption configures a Cache.
type CacheOption[T any] func(*Cache[T])

// WithStaleTime sets the freshness window.
func WithStaleTime[T any](d time.Duration) CacheOption[T] {
	return func(c *Cache[T]) {
		if d > 0 {
			c.staleTime = d
		}
	}
}

// WithClock replaces time.Now (tests).
func WithClock[T any](now func() time.Time) CacheOption[T] {
	return func(c *Cache[T]) { c.now = now }
}

// WithOnUpdate registers a hook called after a background fetch stored its result.
func WithOnUpdate[T any](fn func(key []string)) CacheOption[T] {
	return func(c *Cache[T]) { c.onUpdate = fn }
}

// WithLogger sets the logger used for background failures.
func WithLogger[T any](logger *slog.Logger) CacheOption[T] {
	return func(c *Cache[T]) { c.logger = logger }
}

// Cache is a keyed stale-while-revalidate store.
//
// Fresh entries are served without a fetch. Stale entries with data are served as is
// while one background fetch refreshes them. Entries without data are fetched
// synchronously, and concurrent callers share the in-flight request. Each fetch takes
// a monotonically increasing token; only the latest initiated fetch of a key may store
// its result, so an out-of-order response never overwrites a newer one.
type Cache[T any] struct {
	mu        sync.Mutex
	entries   map[string]*entry[T]
	seq       uint64
	staleTime time.Duration
	now       func() time.Time
	onUpdate  func(key []string)
	logger    *slog.Logger
	wg        sync.WaitGroup
}

type entry[T any] struct {
	key         []string
	data        T
	hasData     bool
	err         error
	updatedAt   time.Time
	invalidated bool
	gen         uint64
	latest      uint64
	inflight    *call[T]
}

type call[T any] struct {
	token      uint64
	gen        uint64
	background bool
	done       chan struct{}
}

// NewCache creates an empty cache.
func NewCache[T any](opts ...CacheOption[T]) *Cache[T] {
	c := &Cache[T]{
		entries:   make(map[string]*entry[T]),
		staleTime: DefaultStaleTime,
		now:       time.Now,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the entry for key, fetching as the freshness rules require.
// It blocks only when the entry has no data yet.
func (c *Cache[T]) Get(ctx context.Context, key []string, fetch FetchFunc[T]) Snapshot[T] {
	c.mu.Lock()
	e := c.entry(key)

	if e.hasData {
		if !c.stale(e) {
			snap := c.snapshot(e)
			c.mu.Unlock()
			return snap
		}
		if e.inflight == nil {
			c.start(ctx, e, fetch, true)
		}
		snap := c.snapshot(e)
		c.mu.Unlock()
		return snap
	}

	if e.inflight == nil {
		c.start(ctx, e, fetch, false)
	}
	c.mu.Unlock()

	return c.await(ctx, e)
}

// Refetch starts a new fetch for key even if one is in flight and waits for it.
// A fetch started earlier can no longer store its result.
func (c *Cache[T]) Refetch(ctx context.Context, key []string, fetch FetchFunc[T]) Snapshot[T] {
	c.mu.Lock()
	e := c.entry(key)
	c.start(ctx, e, fetch, false)
	c.mu.Unlock()

	return c.await(ctx, e)
}

// Peek returns the entry for key without fetching.
func (c *Cache[T]) Peek(key []string) Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[cacheKey(key)]
	if !ok {
		return Snapshot[T]{Stale: true}
	}
	return c.snapshot(e)
}

// Invalidate marks every entry whose key starts with prefix as stale. A fetch in
// flight at this moment still stores its data, but the entry stays stale.
func (c *Cache[T]) Invalidate(prefix ...string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.entries {
		if hasPrefix(e.key, prefix) {
			e.invalidated = true
			e.gen++
			n++
		}
	}
	return n
}

// Wait blocks until all background fetches have finished.
func (c *Cache[T]) Wait() {
	c.wg.Wait()
}

func (c *Cache[T]) entry(key []string) *entry[T] {
	k := cacheKey(key)
	e, ok := c.entries[k]
	if !ok {
		e = &entry[T]{key: slices.Clone(key)}
		c.entries[k] = e
	}
	return e
}

func (c *Cache[T]) stale(e *entry[T]) bool {
	return e.invalidated || c.now().Sub(e.updatedAt) >= c.staleTime
}

// start launches a fetch for e. Caller holds c.mu.
func (c *Cache[T]) start(ctx context.Context, e *entry[T], fetch FetchFunc[T], background bool) {
	c.seq++
	cl := &call[T]{token: c.seq, gen: e.gen, background: background, done: make(chan struct{})}
	e.latest = cl.token
	e.inflight = cl

	// The fetch outlives the caller: other callers may share it.
	fctx := context.WithoutCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		data, err := fetch(fctx)
		c.finish(e, cl, data, err)
	}()
}

func (c *Cache[T]) finish(e *entry[T], cl *call[T], data T, err error) {
	c.mu.Lock()
	stored := cl.token == e.latest
	if stored {
		if err != nil {
			e.err = err
		} else {
			e.data = data
			e.hasData = true
			e.err = nil
			e.updatedAt = c.now()
			e.invalidated = cl.gen != e.gen
		}
	}
	if e.inflight == cl {
		e.inflight = nil
	}
	key := slices.Clone(e.key)
	close(cl.done)
	c.mu.Unlock()

	if !stored {
		c.logger.Debug("discarded out-of-order response", "key", key, "token", cl.token)
		return
	}
	if err != nil && cl.background {
		c.logger.Warn("background refresh failed", "key", key, "error", err)
	}
	if cl.background && c.onUpdate != nil {
		c.onUpdate(key)
	}
}

// await waits until e has no fetch in flight or ctx is done.
func (c *Cache[T]) await(ctx context.Context, e *entry[T]) Snapshot[T] {
	for {
		c.mu.Lock()
		cl := e.inflight
		if cl == nil {
			snap := c.snapshot(e)
			c.mu.Unlock()
			return snap
		}
		c.mu.Unlock()

		select {
		case <-cl.done:
		case <-ctx.Done():
			c.mu.Lock()
			snap := c.snapshot(e)
			c.mu.Unlock()
			if !snap.HasData && snap.Err == nil {
				snap.Err = ctx.Err()
			}
			return snap
		}
	}
}

// snapshot copies e. Caller holds c.mu.
func (c *Cache[T]) snapshot(e *entry[T]) Snapshot[T] {
	s := Snapshot[T]{
		Data:      e.data,
		HasData:   e.hasData,
		Fetching:  e.inflight != nil,
		Err:       e.err,
		UpdatedAt: e.updatedAt,
		Stale:     !e.hasData || c.stale(e),
	}
	switch {
	case e.err != nil:
		s.Status = StatusError
	case e.hasData:
		s.Status = StatusSuccess
	case e.inflight != nil:
		s.Status = StatusLoading
	default:
		s.Status = StatusIdle
	}
	return s
}

func cacheKey(key []string) string {
	return strings.Join(key, "\x00")
}

func hasPrefix(key, prefix []string) bool {
	return len(prefix) <= len(key) && slices.Equal(key[:len(prefix)], prefix)
}
