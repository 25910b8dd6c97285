package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/overlap/internal/core/domain"
)

func TestDocumentStore_SaveAndGet(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	err := store.SaveDocument(ctx, &domain.Document{ID: "doc-1", Title: "First", Author: "Ann"})
	require.NoError(t, err)

	doc, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "First", doc.Title)
	assert.Equal(t, "Ann", doc.Author)
}

func TestDocumentStore_GetNotFound(t *testing.T) {
	store := NewDocumentStore()

	_, err := store.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_DocumentsKeepInsertionOrder(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		_ = store.SaveDocument(ctx, &domain.Document{ID: id})
	}
	_ = store.SaveDocument(ctx, &domain.Document{ID: "a", Title: "updated"})

	docs, err := store.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "c", docs[0].ID)
	assert.Equal(t, "a", docs[1].ID)
	assert.Equal(t, "updated", docs[1].Title)
	assert.Equal(t, "b", docs[2].ID)
}

func TestDocumentStore_Delete(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	_ = store.SaveDocument(ctx, &domain.Document{ID: "a"})
	_ = store.SaveDocument(ctx, &domain.Document{ID: "b"})

	require.NoError(t, store.DeleteDocument(ctx, "a"))
	require.NoError(t, store.DeleteDocument(ctx, "missing"))

	docs, _ := store.Documents(ctx)
	require.Len(t, docs, 1)
	assert.Equal(t, "b", docs[0].ID)

	count, err := store.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDocumentStore_SnapshotIsolation(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	_ = store.SaveDocument(ctx, &domain.Document{ID: "a"})

	snapshot, _ := store.Documents(ctx)
	_ = store.SaveDocument(ctx, &domain.Document{ID: "b"})

	assert.Len(t, snapshot, 1)
}

func TestDocumentStore_Concurrent(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.SaveDocument(ctx, &domain.Document{ID: fmt.Sprintf("doc-%d", i)})
			_, _ = store.Documents(ctx)
		}(i)
	}
	wg.Wait()

	count, _ := store.CountDocuments(ctx)
	assert.Equal(t, 20, count)
}
