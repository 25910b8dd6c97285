package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/overlap/internal/core/domain"
	"github.com/custodia-labs/overlap/internal/core/ports/driven"
)

// Ensure CheckStore implements the interface.
var _ driven.CheckStore = (*CheckStore)(nil)

// CheckStore is an in-memory implementation of driven.CheckStore.
type CheckStore struct {
	mu      sync.RWMutex
	records []domain.CheckRecord
	nextID  int64
}

// NewCheckStore creates a new in-memory check store.
func NewCheckStore() *CheckStore {
	return &CheckStore{nextID: 1}
}

// SaveCheck appends a record and assigns its ID.
func (s *CheckStore) SaveCheck(_ context.Context, rec *domain.CheckRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = s.nextID
	s.nextID++
	s.records = append(s.records, *rec)
	return nil
}

// ListChecks returns the newest records first.
func (s *CheckStore) ListChecks(_ context.Context, documentID string, limit int) ([]domain.CheckRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CheckRecord, 0)
	for i := len(s.records) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		if documentID == "" || s.records[i].DocumentID == documentID {
			out = append(out, s.records[i])
		}
	}
	return out, nil
}
