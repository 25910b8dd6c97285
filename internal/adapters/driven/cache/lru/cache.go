// Package lru implements the score cache as independently locked shards of
// bounded LRU caches.
package lru

import (
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/overlap/internal/core/domain"
	"github.com/custodia-labs/overlap/internal/core/ports/driven"
)

const (
	defaultCapacity = 100000
	defaultShards   = 16
)

// Ensure Cache implements the interface.
var _ driven.ScoreCache = (*Cache)(nil)

// Cache is a sharded LRU score cache. A key always maps to the same shard,
// so lookups of different shards never contend.
type Cache struct {
	shards   []*lru.Cache[string, float64]
	capacity int
	hits     atomic.Uint64
	misses   atomic.Uint64
}

// New creates a cache holding up to capacity entries spread over shards.
// Non-positive values fall back to the defaults.
func New(capacity, shards int) *Cache {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	if shards <= 0 {
		shards = defaultShards
	}
	if shards > capacity {
		shards = capacity
	}

	perShard := capacity / shards
	if capacity%shards != 0 {
		perShard++
	}

	c := &Cache{
		shards:   make([]*lru.Cache[string, float64], shards),
		capacity: perShard * shards,
	}
	for i := range c.shards {
		// lru.New only fails on a non-positive size, guarded above.
		c.shards[i], _ = lru.New[string, float64](perShard)
	}
	return c
}

func (c *Cache) shard(fp string) *lru.Cache[string, float64] {
	return c.shards[xxhash.Sum64String(fp)%uint64(len(c.shards))]
}

// Get returns the cached score for key.
func (c *Cache) Get(key domain.CacheKey) (float64, bool) {
	fp := key.Fingerprint()
	v, ok := c.shard(fp).Get(fp)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Put stores a score for key.
func (c *Cache) Put(key domain.CacheKey, value float64) {
	fp := key.Fingerprint()
	c.shard(fp).Add(fp, value)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	n := 0
	for _, s := range c.shards {
		n += s.Len()
	}
	return n
}

// Stats returns the current counters.
func (c *Cache) Stats() domain.CacheStats {
	return domain.NewCacheStats(c.Len(), c.capacity, c.hits.Load(), c.misses.Load())
}

// Reset drops every entry and zeroes the counters.
func (c *Cache) Reset() {
	for _, s := range c.shards {
		s.Purge()
	}
	c.hits.Store(0)
	c.misses.Store(0)
}
