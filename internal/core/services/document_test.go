package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/overlap/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/overlap/internal/core/domain"
	"github.com/custodia-labs/overlap/internal/core/ports/driving"
)

func TestNewDocumentService(t *testing.T) {
	svc := NewDocumentService(memory.NewDocumentStore(), nil)
	require.NotNil(t, svc)
}

func TestValidateUpload(t *testing.T) {
	valid := longText("word", MinDocumentLength)

	tests := []struct {
		name    string
		req     driving.UploadRequest
		wantErr bool
	}{
		{"valid", driving.UploadRequest{Title: "Essay", Text: valid}, false},
		{"missing title", driving.UploadRequest{Title: "  ", Text: valid}, true},
		{"missing text", driving.UploadRequest{Title: "Essay"}, true},
		{"too short", driving.UploadRequest{Title: "Essay", Text: "short text"}, true},
		{"padding does not count", driving.UploadRequest{Title: "Essay", Text: "   " + valid[:40] + "           "}, true},
		{"too long", driving.UploadRequest{Title: "Essay", Text: strings.Repeat("a", domain.MaxTextLength+1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.req)
			if tt.wantErr {
				assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDocumentService_Upload(t *testing.T) {
	store := memory.NewDocumentStore()
	activity := NewActivityService(0, 0)
	svc := NewDocumentService(store, activity)
	fixed := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	ctx := context.Background()
	text := longText("word", 80)

	doc, err := svc.Upload(ctx, driving.UploadRequest{Author: " Alice ", Title: " Essay ", Text: "  " + text + "\n"})

	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "Alice", doc.Author)
	assert.Equal(t, "Essay", doc.Title)
	assert.Equal(t, text, doc.Text)
	assert.Equal(t, fixed, doc.CreatedAt)

	stored, err := store.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, *doc, *stored)

	events := activity.Recent(0)
	require.Len(t, events, 1)
	assert.Equal(t, domain.ActivityTextSubmitted, events[0].Name)
	assert.Equal(t, doc.ID, events[0].Payload[PayloadDocID])
	assert.Equal(t, doc.Length(), events[0].Payload[PayloadTextLength])
}

func TestDocumentService_Upload_UniqueIDs(t *testing.T) {
	svc := NewDocumentService(memory.NewDocumentStore(), nil)
	req := driving.UploadRequest{Title: "Same", Text: longText("word", 60)}

	a, err := svc.Upload(context.Background(), req)
	require.NoError(t, err)
	b, err := svc.Upload(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestDocumentService_Upload_Invalid(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := NewDocumentService(store, nil)

	_, err := svc.Upload(context.Background(), driving.UploadRequest{Title: "Essay", Text: "tiny"})

	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
	count, _ := store.CountDocuments(context.Background())
	assert.Zero(t, count)
}

func TestDocumentService_GetListDelete(t *testing.T) {
	store := newStore(t,
		domain.Document{ID: "1", Author: "Alice", Title: "Climate"},
		domain.Document{ID: "2", Author: "Bob", Title: "History"},
	)
	svc := NewDocumentService(store, nil)
	ctx := context.Background()

	doc, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Climate", doc.Title)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bob, err := svc.List(ctx, ByAuthor("bob"))
	require.NoError(t, err)
	require.Len(t, bob, 1)
	assert.Equal(t, "2", bob[0].ID)

	require.NoError(t, svc.Delete(ctx, "1"))
	_, err = svc.Get(ctx, "1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	err = svc.Delete(ctx, "1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDocumentService_Import(t *testing.T) {
	src := new(MockCorpus)
	src.On("Documents", mock.Anything).Return([]domain.Document{
		{ID: "a.txt", Title: "a", Text: longText("alpha", 70)},
		{ID: "b.txt", Title: "b", Text: "too short"},
		{ID: "c.md", Title: "c", Text: longText("gamma", 70)},
	}, nil)
	store := memory.NewDocumentStore()
	svc := NewDocumentService(store, nil)

	imported, err := svc.Import(context.Background(), src)

	require.NoError(t, err)
	assert.Equal(t, 2, imported)
	docs, _ := store.Documents(context.Background())
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].Title)
	assert.Equal(t, "c", docs[1].Title)
	src.AssertExpectations(t)
}

func TestDocumentService_Import_SourceFailure(t *testing.T) {
	src := new(MockCorpus)
	src.On("Documents", mock.Anything).Return(nil, errors.New("permission denied"))
	svc := NewDocumentService(memory.NewDocumentStore(), nil)

	imported, err := svc.Import(context.Background(), src)

	assert.Zero(t, imported)
	assert.True(t, errors.Is(err, domain.ErrCorpusUnavailable))
}
