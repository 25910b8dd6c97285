package services

import (
	"strings"
	"time"

	"github.com/custodia-labs/overlap/internal/core/domain"
)

// Threshold keeps results whose similarity reaches a cutoff.
// A zero cutoff keeps everything.
type Threshold struct {
	cutoff float64
}

// NewThreshold creates a threshold predicate.
func NewThreshold(cutoff float64) Threshold {
	return Threshold{cutoff: cutoff}
}

// Cutoff returns the configured cutoff.
func (t Threshold) Cutoff() float64 {
	return t.cutoff
}

// Keep reports whether r passes the cutoff.
func (t Threshold) Keep(r domain.SimilarityResult) bool {
	return r.Similarity >= t.cutoff
}

// Filter returns the results that pass, preserving order.
func (t Threshold) Filter(results []domain.SimilarityResult) []domain.SimilarityResult {
	out := make([]domain.SimilarityResult, 0, len(results))
	for _, r := range results {
		if t.Keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// ByAuthor keeps documents by author, compared case-insensitively.
func ByAuthor(author string) domain.DocumentFilter {
	return func(d domain.Document) bool {
		return strings.EqualFold(d.Author, author)
	}
}

// ByTitle keeps documents whose title contains substr, case-insensitively.
func ByTitle(substr string) domain.DocumentFilter {
	substr = strings.ToLower(substr)
	return func(d domain.Document) bool {
		return strings.Contains(strings.ToLower(d.Title), substr)
	}
}

// ByMinLength keeps documents at least minChars characters long.
func ByMinLength(minChars int) domain.DocumentFilter {
	return func(d domain.Document) bool {
		return d.Length() >= minChars
	}
}

// ByDateRange keeps documents created within [from, to]. A zero bound is open.
func ByDateRange(from, to time.Time) domain.DocumentFilter {
	return func(d domain.Document) bool {
		if !from.IsZero() && d.CreatedAt.Before(from) {
			return false
		}
		if !to.IsZero() && d.CreatedAt.After(to) {
			return false
		}
		return true
	}
}

// AllOf keeps documents accepted by every filter. No filters keeps all.
func AllOf(filters ...domain.DocumentFilter) domain.DocumentFilter {
	return func(d domain.Document) bool {
		for _, f := range filters {
			if f != nil && !f(d) {
				return false
			}
		}
		return true
	}
}

// ApplyFilters returns the documents accepted by every filter.
func ApplyFilters(docs []domain.Document, filters ...domain.DocumentFilter) []domain.Document {
	keep := AllOf(filters...)
	out := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}
