// Package cache provides the process-wide response cache that shields the
// rate-limited upstreams. Entries expire per TTL and are invalidated wholesale
// by bumping the cache version.
package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/andrescamacho/agroinsight-go/internal/application/logging"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
)

// RemoteStore is an optional shared second tier (Redis)
type RemoteStore interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// StatsRecorder receives hit/miss/eviction events for metrics
type StatsRecorder interface {
	RecordCacheHit(cache string)
	RecordCacheMiss(cache string)
	RecordCacheEviction(cache string)
}

type entry struct {
	value    interface{}
	storedAt time.Time
	ttl      time.Duration
	version  int
}

// Options configures a ResponseCache
type Options struct {
	Name       string
	DefaultTTL time.Duration
	Version    int
	Clock      shared.Clock
	Remote     RemoteStore
	Recorder   StatsRecorder
}

// ResponseCache is an in-memory key/value store with per-entry expiry and a
// global version stamp. Safe for concurrent use.
type ResponseCache struct {
	name       string
	defaultTTL time.Duration
	clock      shared.Clock
	remote     RemoteStore
	recorder   StatsRecorder
	group      singleflight.Group

	mu      sync.Mutex
	entries map[string]entry
	version int

	hits      atomic.Uint64
	misses    atomic.Uint64
	sets      atomic.Uint64
	evictions atomic.Uint64
}

// New creates a ResponseCache
func New(opts Options) *ResponseCache {
	if opts.Clock == nil {
		opts.Clock = shared.NewRealClock()
	}
	return &ResponseCache{
		name:       opts.Name,
		defaultTTL: opts.DefaultTTL,
		clock:      opts.Clock,
		remote:     opts.Remote,
		recorder:   opts.Recorder,
		entries:    make(map[string]entry),
		version:    opts.Version,
	}
}

// Name returns the cache name used in stats and metrics
func (c *ResponseCache) Name() string {
	return c.name
}

// Get returns the value only if its age is below its TTL and it was stored
// under the current version. Anything else is evicted and reported absent.
func (c *ResponseCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		c.mu.Unlock()
		c.recordMiss()
		return nil, false
	}
	if c.clock.Now().Sub(e.storedAt) >= e.ttl || e.version != c.version {
		delete(c.entries, key)
		c.mu.Unlock()
		c.evictions.Add(1)
		if c.recorder != nil {
			c.recorder.RecordCacheEviction(c.name)
		}
		c.recordMiss()
		return nil, false
	}
	c.mu.Unlock()

	c.hits.Add(1)
	if c.recorder != nil {
		c.recorder.RecordCacheHit(c.name)
	}
	return e.value, true
}

// Set stores a value with the default TTL
func (c *ResponseCache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores a value stamped with the current time and version
func (c *ResponseCache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.setAt(key, value, c.effectiveTTL(ttl), c.clock.Now())
}

// setAt stores a value whose age is measured from storedAt
func (c *ResponseCache) setAt(key string, value interface{}, ttl time.Duration, storedAt time.Time) {
	c.mu.Lock()
	c.entries[key] = entry{
		value:    value,
		storedAt: storedAt,
		ttl:      ttl,
		version:  c.version,
	}
	c.mu.Unlock()
	c.sets.Add(1)
}

func (c *ResponseCache) effectiveTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return c.defaultTTL
	}
	return ttl
}

// Version returns the current version stamp
func (c *ResponseCache) Version() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// BumpVersion invalidates every stored entry and returns the new version
func (c *ResponseCache) BumpVersion() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	return c.version
}

// Len returns the number of stored entries, including not yet evicted stale ones
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ResponseCache) recordMiss() {
	c.misses.Add(1)
	if c.recorder != nil {
		c.recorder.RecordCacheMiss(c.name)
	}
}

// remoteEntry is the shared-tier payload. StoredAt travels with the value so
// a copy pulled into memory keeps the age it had when first produced.
type remoteEntry[T any] struct {
	StoredAt time.Time `json:"stored_at"`
	Value    T         `json:"value"`
}

func (c *ResponseCache) remoteKey(key string) string {
	return fmt.Sprintf("%s:v%d:%s", c.name, c.Version(), key)
}

// GetOrCompute returns the cached value for key, or runs producer, stores its
// result and returns it. Concurrent misses for the same key share one
// producer call. Producer errors propagate and nothing is stored. The bool
// reports whether the value came from cache.
func GetOrCompute[T any](ctx context.Context, c *ResponseCache, key string, ttl time.Duration, producer func(ctx context.Context) (T, error)) (T, bool, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, true, nil
		}
	}

	logger := logging.FromContext(ctx)

	ttl = c.effectiveTTL(ttl)

	if c.remote != nil {
		var remote remoteEntry[T]
		found, err := c.remote.Get(ctx, c.remoteKey(key), &remote)
		if err != nil {
			logger.Log(logging.LevelWarning, "remote cache read failed", map[string]interface{}{
				"cache": c.name,
				"key":   key,
				"error": err.Error(),
			})
		}
		// entries at or past their TTL are misses even if Redis still holds them
		if found && err == nil && c.clock.Now().Sub(remote.StoredAt) < ttl {
			c.setAt(key, remote.Value, ttl, remote.StoredAt)
			return remote.Value, true, nil
		}
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		value, err := producer(ctx)
		if err != nil {
			return nil, err
		}
		storedAt := c.clock.Now()
		c.setAt(key, value, ttl, storedAt)
		if c.remote != nil {
			payload := remoteEntry[T]{StoredAt: storedAt, Value: value}
			if err := c.remote.Set(ctx, c.remoteKey(key), payload, ttl); err != nil {
				logger.Log(logging.LevelWarning, "remote cache write failed", map[string]interface{}{
					"cache": c.name,
					"key":   key,
					"error": err.Error(),
				})
			}
		}
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return v.(T), false, nil
}
