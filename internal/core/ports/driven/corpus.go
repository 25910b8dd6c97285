package driven

import (
	"context"

	"github.com/custodia-labs/overlap/internal/core/domain"
)

// Corpus is the engine's view of the stored documents.
type Corpus interface {
	// Documents returns a snapshot of every document in stable corpus order.
	// The same corpus must return documents in the same order on every call.
	Documents(ctx context.Context) ([]domain.Document, error)
}
