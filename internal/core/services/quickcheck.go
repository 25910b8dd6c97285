package services

import (
	"sort"
	"unicode/utf8"

	"github.com/custodia-labs/overlap/internal/core/domain"
	"github.com/custodia-labs/overlap/internal/similarity"
)

// Quick-check reasons.
const (
	ReasonSimilarLength    = "similar length"
	ReasonTitleKeyword     = "shared title keyword"
	ReasonCommonVocabulary = "common vocabulary"
)

const (
	quickLengthRatio     = 0.8
	quickVocabularyRatio = 0.3
	quickMinKeywordLen   = 4
	defaultQuickLimit    = 5
)

// QuickCheck is a cheap pre-filter that never builds n-grams. Its
// similarity is the Jaccard ratio of distinct words and results are marked
// with domain.QuickResultKind. Only documents with at least one reason are
// returned, best first, at most limit of them.
func QuickCheck(text string, corpus []domain.Document, limit int) []domain.QuickResult {
	if limit <= 0 {
		limit = defaultQuickLimit
	}

	words := similarity.Words(text)
	length := utf8.RuneCountInString(text)
	results := make([]domain.QuickResult, 0)

	for _, doc := range corpus {
		docWords := similarity.Words(doc.Text)
		approx := similarity.Jaccard(words, docWords)

		var reasons []string
		if lengthRatio(length, doc.Length()) >= quickLengthRatio {
			reasons = append(reasons, ReasonSimilarLength)
		}
		if sharesTitleKeyword(doc.Title, words) {
			reasons = append(reasons, ReasonTitleKeyword)
		}
		if approx >= quickVocabularyRatio {
			reasons = append(reasons, ReasonCommonVocabulary)
		}
		if len(reasons) == 0 {
			continue
		}

		results = append(results, domain.QuickResult{
			DocID:      doc.ID,
			DocTitle:   doc.Title,
			DocAuthor:  doc.Author,
			Similarity: approx,
			Reasons:    reasons,
			Kind:       domain.QuickResultKind,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// lengthRatio is shorter/longer, 0 when either is empty.
func lengthRatio(a, b int) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > b {
		a, b = b, a
	}
	return float64(a) / float64(b)
}

func sharesTitleKeyword(title string, words similarity.Set) bool {
	for _, w := range similarity.Tokenize(title) {
		if utf8.RuneCountInString(w) >= quickMinKeywordLen && words.Contains(w) {
			return true
		}
	}
	return false
}
