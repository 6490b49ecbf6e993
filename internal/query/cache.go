// Package query provides a keyed cache of asynchronous fetches. Each key has at most one
// load in flight; callers asking for a pending key share its result.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mtlprog/earth/internal/metrics"
)

// Loader produces the value for a key.
type Loader[T any] func(ctx context.Context) (T, error)

// Observer is notified of every status change of a watched key.
type Observer[T any] func(Entry[T])

type options struct {
	ttl         time.Duration
	loadTimeout time.Duration
	logger      *slog.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
}

// Option is a functional option for configuring a Cache.
type Option func(*options)

// WithTTL makes successful entries stale after d. Zero keeps them until invalidated.
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		o.ttl = d
	}
}

// WithLoadTimeout bounds each load. Zero leaves loads unbounded.
func WithLoadTimeout(d time.Duration) Option {
	return func(o *options) {
		o.loadTimeout = d
	}
}

// WithLogger sets a custom logger for the cache.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics records lookup results.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// record is the mutable state behind an entry. done is closed once the load settles;
// after that entry is never written again.
type record[T any] struct {
	entry Entry[T]
	done  chan struct{}
}

// Cache is safe for concurrent use.
type Cache[T any] struct {
	opts options

	mu        sync.Mutex
	records   map[string]*record[T]
	observers map[string]map[uint64]Observer[T]
	nextID    uint64

	// deliverMu orders observer calls; it is taken before mu, never after.
	deliverMu sync.Mutex
}

// New creates an empty cache.
func New[T any](opts ...Option) *Cache[T] {
	o := options{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[T]{
		opts:      o,
		records:   make(map[string]*record[T]),
		observers: make(map[string]map[uint64]Observer[T]),
	}
}

// Get returns the current entry for key without blocking. When there is no usable entry
// it stores a pending one and starts loader; a pending or fresh successful entry is
// returned as-is and loader is not called. Failed and stale entries are reloaded.
// An empty key or nil loader yields an idle entry and starts nothing.
func (c *Cache[T]) Get(key string, loader Loader[T]) Entry[T] {
	_, entry := c.acquire(key, loader)
	return entry
}

// Fetch is Get followed by waiting for the load to settle. If ctx ends first the load
// keeps running and its result is still cached.
func (c *Cache[T]) Fetch(ctx context.Context, key string, loader Loader[T]) (T, error) {
	var zero T

	rec, entry := c.acquire(key, loader)
	if rec == nil {
		return zero, ErrNoKey
	}
	if !entry.Settled() {
		select {
		case <-rec.done:
		case <-ctx.Done():
			return zero, ctx.Err()
		}
		c.mu.Lock()
		entry = rec.entry
		c.mu.Unlock()
	}

	if entry.Status == StatusError {
		return zero, entry.Err
	}
	return entry.Data, nil
}

// Wait blocks until the current load of key settles and returns the settled entry.
// A missing key returns an idle entry immediately.
func (c *Cache[T]) Wait(ctx context.Context, key string) (Entry[T], error) {
	c.mu.Lock()
	rec, ok := c.records[key]
	c.mu.Unlock()
	if !ok {
		return Entry[T]{Key: key, Status: StatusIdle}, nil
	}

	select {
	case <-rec.done:
	case <-ctx.Done():
		return Entry[T]{}, ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return rec.entry, nil
}

// Peek returns the entry for key without loading anything.
func (c *Cache[T]) Peek(key string) (Entry[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.records[key]
	if !ok {
		return Entry[T]{Key: key, Status: StatusIdle}, false
	}
	return rec.entry, true
}

// Invalidate removes the entry for key so the next Get fetches again. A load still in
// flight for the removed entry completes but its result is discarded.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	_, ok := c.records[key]
	delete(c.records, key)
	c.mu.Unlock()

	if ok {
		c.opts.logger.Debug("cache entry invalidated", "key", key)
		c.notify(nil, Entry[T]{Key: key, Status: StatusIdle, UpdatedAt: c.opts.now()})
	}
}

// Refresh runs loader and, if it succeeds, replaces the entry for key with the result.
// A failed load leaves the current entry untouched and returns the error, so readers keep
// the last good value through an upstream outage.
func (c *Cache[T]) Refresh(ctx context.Context, key string, loader Loader[T]) error {
	if key == "" || loader == nil {
		return ErrNoKey
	}
	if c.opts.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.loadTimeout)
		defer cancel()
	}

	data, err := runLoader(ctx, loader)
	if err != nil {
		c.opts.logger.Warn("cache refresh failed, keeping current entry", "key", key, "error", err)
		return err
	}

	rec := &record[T]{
		entry: Entry[T]{Key: key, Status: StatusSuccess, Data: data, UpdatedAt: c.opts.now()},
		done:  make(chan struct{}),
	}
	close(rec.done)

	c.mu.Lock()
	c.records[key] = rec
	c.mu.Unlock()

	c.notify(rec, rec.entry)
	return nil
}

// Subscribe registers fn for status changes of key. Calls happen synchronously on the
// goroutine that performs the transition, so fn must not block or call back into the
// cache. A transition that was superseded before it could be delivered is skipped, so
// observers never see an entry that is no longer cached. The returned func removes the
// subscription and is safe to call more than once.
func (c *Cache[T]) Subscribe(key string, fn Observer[T]) (unsubscribe func()) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	if c.observers[key] == nil {
		c.observers[key] = make(map[uint64]Observer[T])
	}
	c.observers[key][id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.observers[key], id)
		if len(c.observers[key]) == 0 {
			delete(c.observers, key)
		}
	}
}

// Snapshot summarizes all entries sorted by key.
func (c *Cache[T]) Snapshot() []Summary {
	c.mu.Lock()
	out := make([]Summary, 0, len(c.records))
	for _, rec := range c.records {
		out = append(out, rec.entry.summary())
	}
	c.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Len returns the number of entries.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

func (c *Cache[T]) acquire(key string, loader Loader[T]) (*record[T], Entry[T]) {
	if key == "" || loader == nil {
		c.opts.metrics.CacheLookup(metrics.LookupIdle)
		return nil, Entry[T]{Key: key, Status: StatusIdle}
	}

	c.mu.Lock()
	if rec, ok := c.records[key]; ok && !c.reloadable(rec.entry) {
		entry := rec.entry
		c.mu.Unlock()
		if entry.Status == StatusPending {
			c.opts.metrics.CacheLookup(metrics.LookupShared)
		} else {
			c.opts.metrics.CacheLookup(metrics.LookupHit)
		}
		return rec, entry
	}

	rec := &record[T]{
		entry: Entry[T]{Key: key, Status: StatusPending, UpdatedAt: c.opts.now()},
		done:  make(chan struct{}),
	}
	c.records[key] = rec
	entry := rec.entry
	c.mu.Unlock()

	c.opts.metrics.CacheLookup(metrics.LookupMiss)
	c.notify(rec, entry)
	go c.load(rec, loader)
	return rec, entry
}

func (c *Cache[T]) reloadable(e Entry[T]) bool {
	switch e.Status {
	case StatusError:
		return true
	case StatusSuccess:
		return c.opts.ttl > 0 && c.opts.now().Sub(e.UpdatedAt) >= c.opts.ttl
	default:
		return false
	}
}

func (c *Cache[T]) load(rec *record[T], loader Loader[T]) {
	ctx := context.Background()
	if c.opts.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.loadTimeout)
		defer cancel()
	}

	data, err := runLoader(ctx, loader)

	c.mu.Lock()
	if err != nil {
		rec.entry.Status = StatusError
		rec.entry.Err = err
	} else {
		rec.entry.Status = StatusSuccess
		rec.entry.Data = data
	}
	rec.entry.UpdatedAt = c.opts.now()
	entry := rec.entry
	close(rec.done)
	c.mu.Unlock()

	if err != nil {
		c.opts.logger.Warn("cache load failed", "key", entry.Key, "error", err)
	}
	c.notify(rec, entry)
}

func runLoader[T any](ctx context.Context, loader Loader[T]) (data T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("loader panicked: %v", r)
		}
	}()
	return loader(ctx)
}

// notify delivers entry if rec is still the record stored under its key. Invalidation
// passes a nil rec, which is current while the key stays absent.
func (c *Cache[T]) notify(rec *record[T], entry Entry[T]) {
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()

	c.mu.Lock()
	if c.records[entry.Key] != rec {
		c.mu.Unlock()
		return
	}
	subs := c.observers[entry.Key]
	fns := make([]Observer[T], 0, len(subs))
	for _, fn := range subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(entry)
	}
}
