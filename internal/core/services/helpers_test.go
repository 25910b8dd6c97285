package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/overlap/internal/adapters/driven/cache/lru"
	"github.com/custodia-labs/overlap/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/overlap/internal/core/domain"
)

// MockCorpus is a mock implementation of driven.Corpus.
type MockCorpus struct {
	mock.Mock
}

func (m *MockCorpus) Documents(ctx context.Context) ([]domain.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

// MockDocumentStore is a document store whose corpus read can be made to fail.
type MockDocumentStore struct {
	*memory.DocumentStore
	err error
}

func (m *MockDocumentStore) Documents(ctx context.Context) ([]domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.DocumentStore.Documents(ctx)
}

func newTestCache() *lru.Cache {
	return lru.New(1000, 4)
}

func foxCorpus() []domain.Document {
	return []domain.Document{
		{ID: "fox", Title: "Fox", Author: "Alice", Text: "the quick brown fox"},
		{ID: "rain", Title: "Rain", Author: "Bob", Text: "rain falls softly on the old tin roof"},
		{ID: "code", Title: "Code", Author: "Carol", Text: "compilers translate source programs into machine code"},
		{ID: "sea", Title: "Sea", Author: "Dave", Text: "waves crash against grey cliffs at dawn"},
	}
}

func newStore(t *testing.T, docs ...domain.Document) *memory.DocumentStore {
	t.Helper()
	store := memory.NewDocumentStore()
	for i := range docs {
		require.NoError(t, store.SaveDocument(context.Background(), &docs[i]))
	}
	return store
}

// longText builds a text of at least minChars characters from numbered words.
func longText(prefix string, minChars int) string {
	var b strings.Builder
	for i := 0; b.Len() < minChars; i++ {
		fmt.Fprintf(&b, "%s%d ", prefix, i)
	}
	return strings.TrimSpace(b.String())
}

func drain(ch <-chan domain.CheckEvent, timeout time.Duration) []domain.CheckEvent {
	var events []domain.CheckEvent
	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-deadline:
			return events
		}
	}
}
