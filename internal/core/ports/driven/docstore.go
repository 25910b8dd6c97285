package driven

import (
	"context"

	"github.com/custodia-labs/overlap/internal/core/domain"
)

// DocumentStore persists documents.
// Read-only stores return domain.ErrReadOnly from the write methods.
type DocumentStore interface {
	Corpus

	// SaveDocument stores a document. Existing ids are overwritten.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// DeleteDocument removes a document.
	DeleteDocument(ctx context.Context, id string) error

	// CountDocuments returns the number of stored documents.
	CountDocuments(ctx context.Context) (int, error)
}
