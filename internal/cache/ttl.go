// internal/cache/ttl.go
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// LoaderFunc produces the bytes to cache. ctx carries the load deadline.
type LoaderFunc func(ctx context.Context) ([]byte, error)

// TTLCache serves an entry while it is younger than the TTL. Older or
// missing entries are reloaded under a timeout; when the reload fails and an
// old entry exists, the old entry is served instead of the error.
type TTLCache struct {
	store       Store
	ttl         time.Duration
	loadTimeout time.Duration
	now         func() time.Time
	log         logrus.FieldLogger

	// generation counts purges. A load only stores its result when no
	// purge happened while it ran.
	mu         sync.Mutex
	generation uint64
}

type Option func(*TTLCache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *TTLCache) { c.now = now }
}

func WithLoadTimeout(d time.Duration) Option {
	return func(c *TTLCache) { c.loadTimeout = d }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *TTLCache) { c.log = log }
}

func New(store Store, ttl time.Duration, opts ...Option) *TTLCache {
	c := &TTLCache{
		store:       store,
		ttl:         ttl,
		loadTimeout: 10 * time.Second,
		now:         time.Now,
		log:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the cached bytes for key, loading them when absent or stale.
func (c *TTLCache) Fetch(ctx context.Context, key string, load LoaderFunc) ([]byte, error) {
	entry, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("Cache store read failed")
		found = false
	}

	if found && c.now().Sub(entry.StoredAt) < c.ttl {
		return entry.Value, nil
	}

	started := c.currentGeneration()

	value, err := c.loadWithTimeout(ctx, key, load)
	if err != nil {
		if found {
			c.log.WithError(err).WithField("key", key).Warn("Serving stale cache entry")
			return entry.Value, nil
		}
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != started {
		return value, nil
	}
	if err := c.store.Set(ctx, key, Entry{Value: value, StoredAt: c.now()}); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("Cache store write failed")
	}
	return value, nil
}

func (c *TTLCache) currentGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

func (c *TTLCache) loadWithTimeout(ctx context.Context, key string, load LoaderFunc) ([]byte, error) {
	loadCtx, cancel := context.WithTimeout(ctx, c.loadTimeout)
	defer cancel()

	type result struct {
		value []byte
		err   error
	}
	done := make(chan result, 1)

	go func() {
		value, err := load(loadCtx)
		done <- result{value, err}
	}()

	select {
	case r := <-done:
		if r.err != nil && errors.Is(r.err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, ErrLoadTimeout
		}
		return r.value, r.err
	case <-loadCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.log.WithField("key", key).WithField("timeout", c.loadTimeout).Warn("Cache load timed out")
		return nil, ErrLoadTimeout
	}
}

// Purge drops every entry. Called after catalog writes.
func (c *TTLCache) Purge(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	if err := c.store.Clear(ctx); err != nil {
		c.log.WithError(err).Warn("Cache purge failed")
	}
}

func (c *TTLCache) TTL() time.Duration {
	return c.ttl
}
