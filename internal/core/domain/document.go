package domain

import (
	"time"
	"unicode/utf8"
)

// Document is a stored text in the corpus.
// Documents are immutable once they have been checked against.
type Document struct {
	// ID is the unique, stable identifier for the document.
	ID string `json:"id"`

	// Author is the display name of the uploader.
	Author string `json:"author"`

	// Title is the human-readable title.
	Title string `json:"title"`

	// Text is the full content.
	Text string `json:"text"`

	// CreatedAt is when the document was uploaded.
	CreatedAt time.Time `json:"created_at"`
}

// Length returns the document length in characters (runes).
func (d Document) Length() int {
	return utf8.RuneCountInString(d.Text)
}

// SimilarityResult is the score of a subject against one corpus document.
// It is never mutated after creation.
type SimilarityResult struct {
	DocID      string  `json:"doc_id"`
	DocTitle   string  `json:"doc_title"`
	DocAuthor  string  `json:"doc_author"`
	Similarity float64 `json:"similarity"`
}

// NewSimilarityResult builds a result for doc with the given score.
func NewSimilarityResult(doc Document, similarity float64) SimilarityResult {
	return SimilarityResult{
		DocID:      doc.ID,
		DocTitle:   doc.Title,
		DocAuthor:  doc.Author,
		Similarity: similarity,
	}
}

// DocumentFilter decides whether a document is kept.
type DocumentFilter func(Document) bool
