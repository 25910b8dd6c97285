package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckStatus_IsTerminal(t *testing.T) {
	assert.False(t, CheckStarted.IsTerminal())
	assert.False(t, CheckProgress.IsTerminal())
	assert.True(t, CheckCompleted.IsTerminal())
	assert.True(t, CheckFailed.IsTerminal())
	assert.Equal(t, "completed", CheckCompleted.String())
}

func TestCacheKey_Fingerprint(t *testing.T) {
	a := CacheKey{Subject: "abc", Candidate: "d1@ff", N: 3}
	b := CacheKey{Subject: "abc", Candidate: "d1@ff", N: 4}

	assert.Equal(t, "abc|d1@ff|3", a.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestNewCacheStats_HitRate(t *testing.T) {
	empty := NewCacheStats(0, 10, 0, 0)
	assert.Zero(t, empty.HitRate)

	stats := NewCacheStats(3, 10, 3, 1)
	assert.InDelta(t, 0.75, stats.HitRate, 1e-9)
	assert.Equal(t, 3, stats.Size)
	assert.Equal(t, 10, stats.Capacity)
}
