package driven

import "github.com/custodia-labs/overlap/internal/core/domain"

// ScoreCache memoises similarity scores by (subject, candidate, n).
// Implementations must be safe for concurrent use.
type ScoreCache interface {
	// Get returns the cached score and whether it was present.
	// Every call counts as exactly one hit or one miss.
	Get(key domain.CacheKey) (float64, bool)

	// Put stores a score. Concurrent puts of the same key are last-writer-wins.
	Put(key domain.CacheKey, value float64)

	// Stats returns the current counters.
	Stats() domain.CacheStats

	// Reset drops every entry and zeroes the counters.
	Reset()
}
