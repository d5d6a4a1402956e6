package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"golang.org/x/sync/singleflight"

	"leadtimecli/internal/dataprocessing"
)

// LoadFunc parses and normalizes one upload.
type LoadFunc func(ctx context.Context, data []byte, format dataprocessing.Format) (Batch, error)

// Cached memoizes LoadFunc results by input digest and format. Concurrent
// loads of the same input share one call, failures are never stored, and
// the oldest entry is evicted once maxEntries is reached. A maxEntries of zero
// disables storage but still collapses concurrent calls.
type Cached struct {
	load       LoadFunc
	maxEntries int
	metrics    *Metrics

	mu      sync.Mutex
	entries map[string]Batch
	order   []string
	hits    int64
	misses  int64

	group singleflight.Group
}

// NewCached wraps load. metrics may be nil.
func NewCached(load LoadFunc, maxEntries int, metrics *Metrics) *Cached {
	return &Cached{
		load:       load,
		maxEntries: maxEntries,
		metrics:    metrics,
		entries:    make(map[string]Batch),
	}
}

// CacheKey identifies an input by content and format.
func CacheKey(data []byte, format dataprocessing.Format) string {
	sum := sha256.Sum256(data)
	return string(format) + ":" + hex.EncodeToString(sum[:])
}

// Load returns a private copy of the batch for data and whether it came from
// the cache.
func (c *Cached) Load(ctx context.Context, data []byte, format dataprocessing.Format) (Batch, bool, error) {
	key := CacheKey(data, format)

	if batch, ok := c.get(key); ok {
		c.metrics.recordCache(ctx, true)
		return batch.Clone(), true, nil
	}
	c.metrics.recordCache(ctx, false)

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if batch, ok := c.peek(key); ok {
			return batch, nil
		}
		batch, err := c.load(context.WithoutCancel(ctx), data, format)
		if err != nil {
			return Batch{}, err
		}
		c.set(key, batch)
		return batch, nil
	})
	if err != nil {
		return Batch{}, false, err
	}
	return v.(Batch).Clone(), false, nil
}

func (c *Cached) get(key string) (Batch, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	batch, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return batch, ok
}

func (c *Cached) peek(key string) (Batch, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	batch, ok := c.entries[key]
	return batch, ok
}

func (c *Cached) set(key string, batch Batch) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries <= 0 {
		return
	}
	if _, exists := c.entries[key]; exists {
		return
	}
	for len(c.order) >= c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = batch
	c.order = append(c.order, key)
}

// Len returns the number of stored batches.
func (c *Cached) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cache statistics
func (c *Cached) Stats() map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	hitRatio := float64(0)
	if total > 0 {
		hitRatio = float64(c.hits) / float64(total)
	}
	return map[string]interface{}{
		"entries":     len(c.entries),
		"max_entries": c.maxEntries,
		"hit_count":   c.hits,
		"miss_count":  c.misses,
		"hit_ratio":   hitRatio,
	}
}
