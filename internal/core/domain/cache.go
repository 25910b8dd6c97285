package domain

import "strconv"

// CacheKey identifies one memoised comparison: the subject's identity, the
// candidate document and the n-gram size.
type CacheKey struct {
	// Subject is a content fingerprint of the subject text.
	Subject string

	// Candidate is the candidate document id joined with its content fingerprint.
	Candidate string

	// N is the n-gram size.
	N int
}

// Fingerprint returns the string form used as the cache map key.
func (k CacheKey) Fingerprint() string {
	return k.Subject + "|" + k.Candidate + "|" + strconv.Itoa(k.N)
}

// CacheStats reports the memoisation cache counters.
type CacheStats struct {
	Size     int     `json:"size"`
	Capacity int     `json:"maxsize"`
	Hits     uint64  `json:"hits"`
	Misses   uint64  `json:"misses"`
	HitRate  float64 `json:"hit_rate"`
}

// NewCacheStats derives the hit rate, which is 0 before any lookup.
func NewCacheStats(size, capacity int, hits, misses uint64) CacheStats {
	stats := CacheStats{Size: size, Capacity: capacity, Hits: hits, Misses: misses}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	return stats
}
