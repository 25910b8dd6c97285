package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/overlap/internal/core/domain"
	"github.com/custodia-labs/overlap/internal/core/ports/driven"
	"github.com/custodia-labs/overlap/internal/core/ports/driving"
	"github.com/custodia-labs/overlap/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// MinDocumentLength is the shortest text accepted on upload, in characters.
const MinDocumentLength = 50

// DocumentService manages the stored corpus.
type DocumentService struct {
	docStore driven.DocumentStore
	activity driving.ActivityService
	now      func() time.Time
}

// NewDocumentService creates a new document service.
// The activity feed is optional (can be nil).
func NewDocumentService(docStore driven.DocumentStore, activity driving.ActivityService) *DocumentService {
	return &DocumentService{
		docStore: docStore,
		activity: activity,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ValidateUpload checks a submission before it is stored.
func ValidateUpload(req driving.UploadRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", domain.ErrInvalidParameter)
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return fmt.Errorf("%w: text must not be empty", domain.ErrInvalidParameter)
	}
	length := utf8.RuneCountInString(text)
	if length < MinDocumentLength {
		return fmt.Errorf("%w: text is %d characters, minimum is %d",
			domain.ErrInvalidParameter, length, MinDocumentLength)
	}
	if length > domain.MaxTextLength {
		return fmt.Errorf("%w: text is %d characters, maximum is %d",
			domain.ErrInvalidParameter, length, domain.MaxTextLength)
	}
	return nil
}

// Upload validates and stores a new document.
func (s *DocumentService) Upload(ctx context.Context, req driving.UploadRequest) (*domain.Document, error) {
	if err := ValidateUpload(req); err != nil {
		return nil, err
	}

	doc := &domain.Document{
		ID:        uuid.New().String(),
		Author:    strings.TrimSpace(req.Author),
		Title:     strings.TrimSpace(req.Title),
		Text:      strings.TrimSpace(req.Text),
		CreatedAt: s.now(),
	}
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	logger.Debug("Stored document %s (%d chars)", doc.ID, doc.Length())

	if s.activity != nil {
		s.activity.Publish(domain.ActivityTextSubmitted, map[string]any{
			PayloadDocID:      doc.ID,
			PayloadTitle:      doc.Title,
			PayloadAuthor:     doc.Author,
			PayloadTextLength: doc.Length(),
		})
	}
	return doc, nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, documentID)
}

// List returns the documents accepted by every filter, in corpus order.
func (s *DocumentService) List(ctx context.Context, filters ...domain.DocumentFilter) ([]domain.Document, error) {
	docs, err := s.docStore.Documents(ctx)
	if err != nil {
		return nil, err
	}
	return ApplyFilters(docs, filters...), nil
}

// Delete removes a document.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	if _, err := s.docStore.GetDocument(ctx, documentID); err != nil {
		return err
	}
	return s.docStore.DeleteDocument(ctx, documentID)
}

// Import uploads every valid document of src. Documents failing upload
// validation are skipped with a warning.
func (s *DocumentService) Import(ctx context.Context, src driven.Corpus) (int, error) {
	logger.Section("Import")
	docs, err := src.Documents(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrCorpusUnavailable, err)
	}

	imported := 0
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return imported, err
		}
		_, err := s.Upload(ctx, driving.UploadRequest{Author: d.Author, Title: d.Title, Text: d.Text})
		if errors.Is(err, domain.ErrInvalidParameter) {
			logger.Warn("Skipping %s: %v", d.ID, err)
			continue
		}
		if err != nil {
			return imported, fmt.Errorf("import %s: %w", d.ID, err)
		}
		imported++
	}
	logger.Info("Imported %d of %d documents", imported, len(docs))
	return imported, nil
}
