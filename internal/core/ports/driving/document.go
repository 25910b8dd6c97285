package driving

import (
	"context"

	"github.com/custodia-labs/overlap/internal/core/domain"
	"github.com/custodia-labs/overlap/internal/core/ports/driven"
)

// UploadRequest is a new document submitted by a user.
type UploadRequest struct {
	Author string `json:"author"`
	Title  string `json:"title"`
	Text   string `json:"text"`
}

// DocumentService manages the stored corpus.
type DocumentService interface {
	// Upload validates and stores a new document.
	Upload(ctx context.Context, req UploadRequest) (*domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// List returns the documents accepted by every filter, in corpus order.
	List(ctx context.Context, filters ...domain.DocumentFilter) ([]domain.Document, error)

	// Delete removes a document.
	Delete(ctx context.Context, documentID string) error

	// Import uploads every valid document of src and returns how many were stored.
	Import(ctx context.Context, src driven.Corpus) (int, error)
}
