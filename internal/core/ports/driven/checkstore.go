package driven

import (
	"context"

	"github.com/custodia-labs/overlap/internal/core/domain"
)

// CheckStore persists the history of document checks.
type CheckStore interface {
	// SaveCheck appends a record and assigns its ID.
	SaveCheck(ctx context.Context, rec *domain.CheckRecord) error

	// ListChecks returns the newest records first. An empty documentID
	// lists checks of every document; limit <= 0 means no limit.
	ListChecks(ctx context.Context, documentID string, limit int) ([]domain.CheckRecord, error)
}
