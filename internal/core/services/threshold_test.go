package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/overlap/internal/core/domain"
)

func TestThreshold_Filter(t *testing.T) {
	results := []domain.SimilarityResult{
		{DocID: "a", Similarity: 0.2},
		{DocID: "b", Similarity: 0.5},
		{DocID: "c", Similarity: 0.9},
		{DocID: "d", Similarity: 0.5},
	}

	kept := NewThreshold(0.5).Filter(results)

	assert.Equal(t, []domain.SimilarityResult{
		{DocID: "b", Similarity: 0.5},
		{DocID: "c", Similarity: 0.9},
		{DocID: "d", Similarity: 0.5},
	}, kept)
	assert.Len(t, NewThreshold(0).Filter(results), 4)
	assert.Empty(t, NewThreshold(1).Filter(results))
	assert.InDelta(t, 0.5, NewThreshold(0.5).Cutoff(), 1e-9)
}

func TestDocumentFilters(t *testing.T) {
	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	docs := []domain.Document{
		{ID: "1", Author: "Alice", Title: "Climate Report", Text: "short", CreatedAt: jan},
		{ID: "2", Author: "alice", Title: "History notes", Text: "a much longer text body", CreatedAt: mar},
		{ID: "3", Author: "Bob", Title: "Climate essay", Text: "another long enough text", CreatedAt: mar},
	}

	ids := func(docs []domain.Document) []string {
		out := make([]string, 0, len(docs))
		for _, d := range docs {
			out = append(out, d.ID)
		}
		return out
	}

	tests := []struct {
		name     string
		filters  []domain.DocumentFilter
		expected []string
	}{
		{"no filters", nil, []string{"1", "2", "3"}},
		{"author ignores case", []domain.DocumentFilter{ByAuthor("ALICE")}, []string{"1", "2"}},
		{"title substring", []domain.DocumentFilter{ByTitle("climate")}, []string{"1", "3"}},
		{"min length", []domain.DocumentFilter{ByMinLength(10)}, []string{"2", "3"}},
		{"date from", []domain.DocumentFilter{ByDateRange(mar, time.Time{})}, []string{"2", "3"}},
		{"date to", []domain.DocumentFilter{ByDateRange(time.Time{}, jan)}, []string{"1"}},
		{"combined", []domain.DocumentFilter{ByAuthor("alice"), ByTitle("notes")}, []string{"2"}},
		{"nil filter ignored", []domain.DocumentFilter{nil}, []string{"1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(ApplyFilters(docs, tt.filters...)))
		})
	}
}
