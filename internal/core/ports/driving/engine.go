package driving

import (
	"context"

	"github.com/custodia-labs/overlap/internal/core/domain"
)

// EngineService is the plagiarism-detection facade.
//
// Every method that takes n and threshold validates them before touching
// the corpus and returns domain.ErrInvalidParameter on bad input.
type EngineService interface {
	// Score compares text against the whole corpus and reports the best matches.
	Score(ctx context.Context, text string, n int, threshold float64) (*domain.ScoreReport, error)

	// ScoreDocument compares a stored document against every other document
	// and records the outcome in the check history.
	ScoreDocument(ctx context.Context, documentID string, n int, threshold float64) (*domain.ScoreReport, error)

	// ProgressiveScore streams one event per corpus document. The channel is
	// closed after the terminal event, or early when ctx is cancelled.
	ProgressiveScore(ctx context.Context, text string, n int, threshold float64) (<-chan domain.CheckEvent, error)

	// QuickScore runs the approximate heuristic over the corpus.
	QuickScore(ctx context.Context, text string) (*domain.QuickReport, error)

	// RecursiveAnalysis scores every document pair and builds the longest
	// relationship chain.
	RecursiveAnalysis(ctx context.Context) (*domain.Analysis, error)

	// BatchStats aggregates corpus statistics in contiguous batches.
	BatchStats(ctx context.Context) (*domain.BatchReport, error)

	// History returns recorded document checks, newest first.
	History(ctx context.Context, documentID string, limit int) ([]domain.CheckRecord, error)

	// CacheStats returns the memoisation cache counters.
	CacheStats() domain.CacheStats

	// ResetCache clears the memoisation cache.
	ResetCache()
}
