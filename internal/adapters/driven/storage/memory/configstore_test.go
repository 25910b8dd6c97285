package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("server.addr", ":8080"))

	val, ok := store.Get("server.addr")
	assert.True(t, ok)
	assert.Equal(t, ":8080", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("engine.default_ngram", 4)
	_ = store.Set("cache.capacity", int64(500))
	_ = store.Set("engine.batch_size", 12.0)
	_ = store.Set("engine.chain_threshold", 0.45)
	_ = store.Set("engine.alert_threshold", 1)
	_ = store.Set("server.allowed_origins", []any{"http://a", 7, "http://b"})
	_ = store.Set("flag", true)

	assert.Equal(t, 4, store.GetInt("engine.default_ngram"))
	assert.Equal(t, 500, store.GetInt("cache.capacity"))
	assert.Equal(t, 12, store.GetInt("engine.batch_size"))
	assert.InDelta(t, 0.45, store.GetFloat("engine.chain_threshold"), 1e-9)
	assert.InDelta(t, 1.0, store.GetFloat("engine.alert_threshold"), 1e-9)
	assert.Equal(t, []string{"http://a", "http://b"}, store.GetStringSlice("server.allowed_origins"))
	assert.True(t, store.GetBool("flag"))
}

func TestConfigStore_WrongTypesReturnZero(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("key", "not a number")

	assert.Zero(t, store.GetInt("key"))
	assert.Zero(t, store.GetFloat("key"))
	assert.False(t, store.GetBool("key"))
	assert.Nil(t, store.GetStringSlice("key"))
	assert.Empty(t, store.GetString("missing"))
}

func TestConfigStore_SaveLoadPath(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Set("engine.top_matches", i)
			_ = store.GetInt("engine.top_matches")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("engine.top_matches")
	assert.True(t, ok)
}
