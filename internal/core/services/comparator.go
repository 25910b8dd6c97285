package services

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/overlap/internal/core/domain"
	"github.com/custodia-labs/overlap/internal/core/ports/driven"
	"github.com/custodia-labs/overlap/internal/logger"
	"github.com/custodia-labs/overlap/internal/similarity"
)

// Subject is a text prepared for comparison against the corpus.
type Subject struct {
	Text   string
	Tokens []string

	fingerprint string
}

// NewSubject tokenises text and fingerprints it for cache identity.
func NewSubject(text string) Subject {
	return Subject{
		Text:        text,
		Tokens:      similarity.Tokenize(text),
		fingerprint: similarity.Fingerprint(text),
	}
}

// CompareStats counts cache lookups of one comparison run.
type CompareStats struct {
	Hits   uint64
	Misses uint64
}

// Add accumulates other into s.
func (s *CompareStats) Add(other CompareStats) {
	s.Hits += other.Hits
	s.Misses += other.Misses
}

// Comparator scores subjects against candidate documents through the cache.
// Concurrent misses for the same key are computed once.
type Comparator struct {
	cache driven.ScoreCache
	group singleflight.Group
}

// NewComparator creates a comparator backed by cache.
func NewComparator(cache driven.ScoreCache) *Comparator {
	return &Comparator{cache: cache}
}

// candidateKey identifies a document by id and content so that an edited
// document is never served a stale score.
func candidateKey(doc domain.Document) string {
	return doc.ID + "@" + similarity.Fingerprint(doc.Text)
}

// Similarity returns the score of subject against doc and whether it was a
// cache hit. shingles are the subject's n-grams; nil means compute on demand.
func (c *Comparator) Similarity(subject Subject, shingles similarity.Set, doc domain.Document, n int) (float64, bool) {
	key := domain.CacheKey{Subject: subject.fingerprint, Candidate: candidateKey(doc), N: n}

	if v, ok := c.cache.Get(key); ok {
		if validScore(v) {
			return v, true
		}
		logger.Warn("Discarding invalid cached score %v for %s", v, key.Fingerprint())
	}

	v, _, _ := c.group.Do(key.Fingerprint(), func() (any, error) {
		if shingles == nil {
			shingles = similarity.Shingles(subject.Tokens, n)
		}
		score := similarity.Jaccard(shingles, similarity.Shingles(similarity.Tokenize(doc.Text), n))
		c.cache.Put(key, score)
		return score, nil
	})
	return v.(float64), false
}

func validScore(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// compareFrame is one pending step of CompareRecursive: the candidates not
// yet scored.
type compareFrame struct {
	tail []domain.Document
}

// CompareRecursive scores subject against every candidate and returns one
// result per candidate in candidate order.
//
// The traversal is head/tail recursion over the candidate list, run on an
// explicit work stack so corpus size never bounds call depth. Only context
// cancellation stops it early.
func (c *Comparator) CompareRecursive(
	ctx context.Context, subject Subject, candidates []domain.Document, n int,
) ([]domain.SimilarityResult, CompareStats, error) {
	var stats CompareStats
	results := make([]domain.SimilarityResult, 0, len(candidates))
	shingles := similarity.Shingles(subject.Tokens, n)

	stack := []compareFrame{{tail: candidates}}
	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(frame.tail) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, stats, fmt.Errorf("%w: %w", domain.ErrStreamInterrupted, err)
		}

		head := frame.tail[0]
		score, hit := c.Similarity(subject, shingles, head, n)
		if hit {
			stats.Hits++
		} else {
			stats.Misses++
		}
		results = append(results, domain.NewSimilarityResult(head, score))

		stack = append(stack, compareFrame{tail: frame.tail[1:]})
	}

	return results, stats, nil
}
