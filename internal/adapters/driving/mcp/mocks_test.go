package mcp

import (
	"context"

	"github.com/custodia-labs/overlap/internal/core/domain"
	"github.com/custodia-labs/overlap/internal/core/ports/driven"
	"github.com/custodia-labs/overlap/internal/core/ports/driving"
)

// mockEngineService is a mock implementation of driving.EngineService.
type mockEngineService struct {
	report   *domain.ScoreReport
	quick    *domain.QuickReport
	analysis *domain.Analysis
	batches  *domain.BatchReport
	stats    domain.CacheStats
	err      error

	lastN int
}

func (m *mockEngineService) Score(_ context.Context, _ string, n int, _ float64) (*domain.ScoreReport, error) {
	m.lastN = n
	return m.report, m.err
}

func (m *mockEngineService) ScoreDocument(_ context.Context, _ string, _ int, _ float64) (*domain.ScoreReport, error) {
	return m.report, m.err
}

func (m *mockEngineService) ProgressiveScore(
	_ context.Context, _ string, _ int, _ float64,
) (<-chan domain.CheckEvent, error) {
	return nil, m.err
}

func (m *mockEngineService) QuickScore(_ context.Context, _ string) (*domain.QuickReport, error) {
	return m.quick, m.err
}

func (m *mockEngineService) RecursiveAnalysis(_ context.Context) (*domain.Analysis, error) {
	return m.analysis, m.err
}

func (m *mockEngineService) BatchStats(_ context.Context) (*domain.BatchReport, error) {
	return m.batches, m.err
}

func (m *mockEngineService) History(_ context.Context, _ string, _ int) ([]domain.CheckRecord, error) {
	return nil, m.err
}

func (m *mockEngineService) CacheStats() domain.CacheStats {
	return m.stats
}

func (m *mockEngineService) ResetCache() {}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	err       error
}

func (m *mockDocumentService) Upload(_ context.Context, _ driving.UploadRequest) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) List(_ context.Context, _ ...domain.DocumentFilter) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockDocumentService) Import(_ context.Context, _ driven.Corpus) (int, error) {
	return 0, m.err
}
