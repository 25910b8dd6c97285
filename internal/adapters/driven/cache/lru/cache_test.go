package lru

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/overlap/internal/core/domain"
)

func key(i int) domain.CacheKey {
	return domain.CacheKey{Subject: "s", Candidate: fmt.Sprintf("doc-%d@abc", i), N: 3}
}

func TestNew_Defaults(t *testing.T) {
	c := New(0, 0)

	stats := c.Stats()
	assert.Equal(t, defaultCapacity, stats.Capacity)
	assert.Len(t, c.shards, defaultShards)
	assert.Zero(t, stats.Size)
}

func TestNew_MoreShardsThanCapacity(t *testing.T) {
	c := New(4, 16)

	assert.Len(t, c.shards, 4)
	assert.Equal(t, 4, c.Stats().Capacity)
}

func TestCache_GetPut(t *testing.T) {
	c := New(100, 4)

	_, ok := c.Get(key(1))
	assert.False(t, ok)

	c.Put(key(1), 0.75)
	v, ok := c.Get(key(1))
	require.True(t, ok)
	assert.InDelta(t, 0.75, v, 1e-9)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
	assert.InDelta(t, 0.5, stats.HitRate, 1e-9)
}

func TestCache_KeysDifferByN(t *testing.T) {
	c := New(100, 4)
	k2 := key(1)
	k2.N = 2

	c.Put(key(1), 0.5)
	_, ok := c.Get(k2)

	assert.False(t, ok)
}

func TestCache_LastWriterWins(t *testing.T) {
	c := New(100, 4)

	c.Put(key(1), 0.1)
	c.Put(key(1), 0.2)

	v, ok := c.Get(key(1))
	require.True(t, ok)
	assert.InDelta(t, 0.2, v, 1e-9)
	assert.Equal(t, 1, c.Len())
}

func TestCache_EvictsAtCapacity(t *testing.T) {
	c := New(8, 1)

	for i := 0; i < 20; i++ {
		c.Put(key(i), 0.5)
	}

	assert.Equal(t, 8, c.Len())
	_, ok := c.Get(key(0))
	assert.False(t, ok)
	_, ok = c.Get(key(19))
	assert.True(t, ok)
}

func TestCache_Reset(t *testing.T) {
	c := New(100, 4)
	c.Put(key(1), 0.5)
	c.Get(key(1))
	c.Get(key(2))

	c.Reset()

	stats := c.Stats()
	assert.Zero(t, stats.Size)
	assert.Zero(t, stats.Hits)
	assert.Zero(t, stats.Misses)
	assert.Zero(t, stats.HitRate)
}

func TestCache_Concurrent(t *testing.T) {
	c := New(1000, 8)
	var wg sync.WaitGroup

	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				c.Put(key(i), float64(w)/10)
				c.Get(key(i))
			}
		}(w)
	}
	wg.Wait()

	stats := c.Stats()
	assert.Equal(t, 100, stats.Size)
	assert.Equal(t, uint64(800), stats.Hits+stats.Misses)
}
