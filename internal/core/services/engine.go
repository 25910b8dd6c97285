package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/overlap/internal/core/domain"
	"github.com/custodia-labs/overlap/internal/core/ports/driven"
	"github.com/custodia-labs/overlap/internal/core/ports/driving"
	"github.com/custodia-labs/overlap/internal/logger"
	"github.com/custodia-labs/overlap/internal/metrics"
	"github.com/custodia-labs/overlap/internal/similarity"
)

// Ensure EngineService implements the interface.
var _ driving.EngineService = (*EngineService)(nil)

const highSeverityScore = 0.9

// EngineService is the plagiarism-detection facade over the corpus.
type EngineService struct {
	store      driven.DocumentStore
	cache      driven.ScoreCache
	comparator *Comparator
	settings   domain.EngineSettings

	checkStore driven.CheckStore
	activity   driving.ActivityService
	metrics    *metrics.Metrics
}

// NewEngineService creates an engine reading documents from store and
// memoising scores in cache. Zero settings fall back to the defaults.
func NewEngineService(
	store driven.DocumentStore,
	cache driven.ScoreCache,
	settings domain.EngineSettings,
) *EngineService {
	defaults := domain.DefaultSettings().Engine
	if settings.DefaultNGram == 0 {
		settings.DefaultNGram = defaults.DefaultNGram
	}
	if settings.TopMatches <= 0 {
		settings.TopMatches = defaults.TopMatches
	}
	if settings.BatchSize <= 0 {
		settings.BatchSize = defaults.BatchSize
	}
	if settings.QuickLimit <= 0 {
		settings.QuickLimit = defaults.QuickLimit
	}
	if settings.ChainThreshold <= 0 {
		settings.ChainThreshold = defaults.ChainThreshold
	}
	if settings.AlertThreshold <= 0 {
		settings.AlertThreshold = defaults.AlertThreshold
	}
	return &EngineService{
		store:      store,
		cache:      cache,
		comparator: NewComparator(cache),
		settings:   settings,
	}
}

// SetCheckStore enables check history for ScoreDocument.
func (s *EngineService) SetCheckStore(store driven.CheckStore) {
	s.checkStore = store
}

// SetActivity sets the feed that receives CHECK_DONE and ALERT events.
func (s *EngineService) SetActivity(activity driving.ActivityService) {
	s.activity = activity
}

// SetMetrics sets the collectors updated by every check.
func (s *EngineService) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// Settings returns the effective engine settings.
func (s *EngineService) Settings() domain.EngineSettings {
	return s.settings
}

// Score compares text against the whole corpus.
func (s *EngineService) Score(
	ctx context.Context, text string, n int, threshold float64,
) (*domain.ScoreReport, error) {
	logger.Section("Score")
	if err := validateCheck(text, n, threshold); err != nil {
		return nil, err
	}
	finish := s.metrics.CheckStarted(metrics.KindScore)

	docs, err := s.documents(ctx)
	if err != nil {
		finish(statusOf(err))
		return nil, err
	}

	report, err := s.score(ctx, NewSubject(text), docs, n, threshold)
	finish(statusOf(err))
	return report, err
}

// ScoreDocument compares a stored document against every other document,
// records the check and publishes CHECK_DONE (and ALERT above the alert
// threshold).
func (s *EngineService) ScoreDocument(
	ctx context.Context, documentID string, n int, threshold float64,
) (*domain.ScoreReport, error) {
	logger.Section("Score Document")
	logger.Debug("Document: %s", documentID)
	if err := validateParams(n, threshold); err != nil {
		return nil, err
	}

	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", documentID, err)
	}
	finish := s.metrics.CheckStarted(metrics.KindDocument)

	docs, err := s.documents(ctx)
	if err != nil {
		finish(statusOf(err))
		return nil, err
	}
	others := ApplyFilters(docs, func(d domain.Document) bool { return d.ID != doc.ID })

	report, err := s.score(ctx, NewSubject(doc.Text), others, n, threshold)
	finish(statusOf(err))
	if err != nil {
		return nil, err
	}

	s.recordCheck(ctx, doc, report)
	return report, nil
}

func (s *EngineService) recordCheck(ctx context.Context, doc *domain.Document, report *domain.ScoreReport) {
	rec := &domain.CheckRecord{
		DocumentID: doc.ID,
		DocTitle:   doc.Title,
		DocAuthor:  doc.Author,
		Score:      report.Score,
		CheckedAt:  time.Now().UTC(),
	}
	if len(report.Matches) > 0 {
		rec.MatchedDocID = report.Matches[0].DocID
	}
	if s.checkStore != nil {
		if err := s.checkStore.SaveCheck(ctx, rec); err != nil {
			logger.Warn("Failed to record check of %s: %v", doc.ID, err)
		}
	}

	if s.activity == nil {
		return
	}
	s.activity.Publish(domain.ActivityCheckDone, map[string]any{
		PayloadDocID:      doc.ID,
		PayloadTitle:      doc.Title,
		PayloadSimilarity: report.Score,
		PayloadMatchedID:  rec.MatchedDocID,
	})
	if report.Score > s.settings.AlertThreshold {
		severity := domain.SeverityMedium
		if report.Score > highSeverityScore {
			severity = domain.SeverityHigh
		}
		s.activity.Publish(domain.ActivityAlert, map[string]any{
			PayloadDocID:      doc.ID,
			PayloadTitle:      doc.Title,
			PayloadSimilarity: report.Score,
			PayloadSeverity:   string(severity),
			PayloadMessage:    fmt.Sprintf("suspicious match: %d%%", int(math.Round(report.Score*100))),
		})
	}
}

// score runs the comparator and assembles the report.
func (s *EngineService) score(
	ctx context.Context, subject Subject, docs []domain.Document, n int, threshold float64,
) (*domain.ScoreReport, error) {
	logger.Debug("Tokens: %d, n: %d, threshold: %.2f, candidates: %d",
		len(subject.Tokens), n, threshold, len(docs))

	results, stats, err := s.comparator.CompareRecursive(ctx, subject, docs, n)
	s.metrics.CacheLookups(stats.Hits, stats.Misses)
	if err != nil {
		return nil, err
	}
	s.metrics.DocumentsScored(len(results))

	report := &domain.ScoreReport{Matches: []domain.SimilarityResult{}}
	for _, r := range results {
		report.Score = max(report.Score, r.Similarity)
	}

	matches := results
	if threshold > 0 {
		matches = NewThreshold(threshold).Filter(results)
		report.FilteredByThreshold = threshold
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > s.settings.TopMatches {
		matches = matches[:s.settings.TopMatches]
	}
	report.Matches = append(report.Matches, matches...)

	cacheStats := s.cache.Stats()
	report.Stats = domain.ScoreStats{
		Tokens:           len(subject.Tokens),
		NGrams:           len(similarity.NGrams(subject.Tokens, n)),
		DocumentsChecked: len(docs),
		CacheUsed:        stats.Hits > 0,
		Hits:             cacheStats.Hits,
		Misses:           cacheStats.Misses,
		Size:             cacheStats.Size,
	}

	logger.Debug("Score: %.4f, matches: %d, hits: %d, misses: %d",
		report.Score, len(report.Matches), stats.Hits, stats.Misses)
	return report, nil
}

// ProgressiveScore streams a check over the corpus.
func (s *EngineService) ProgressiveScore(
	ctx context.Context, text string, n int, threshold float64,
) (<-chan domain.CheckEvent, error) {
	logger.Section("Progressive Check")
	if err := validateCheck(text, n, threshold); err != nil {
		return nil, err
	}
	finish := s.metrics.CheckStarted(metrics.KindProgressive)

	run := ProgressiveCheck{
		Comparator: s.comparator,
		Corpus:     s.store,
		OnFinish: func(o RunOutcome) {
			s.metrics.CacheLookups(o.Stats.Hits, o.Stats.Misses)
			s.metrics.DocumentsScored(o.Scored)
			switch o.Status {
			case domain.CheckCompleted:
				finish(metrics.StatusOK)
			case domain.CheckFailed:
				finish(metrics.StatusFailed)
			default:
				finish(metrics.StatusInterrupted)
			}
			logger.Debug("Progressive check %s: scored %d, results %d", o.Status, o.Scored, o.Results)
		},
	}
	return run.Run(ctx, text, n, NewThreshold(threshold)), nil
}

// QuickScore runs the approximate heuristic over the corpus.
func (s *EngineService) QuickScore(ctx context.Context, text string) (*domain.QuickReport, error) {
	logger.Section("Quick Check")
	if err := validateText(text); err != nil {
		return nil, err
	}
	finish := s.metrics.CheckStarted(metrics.KindQuick)

	docs, err := s.documents(ctx)
	if err != nil {
		finish(statusOf(err))
		return nil, err
	}

	report := &domain.QuickReport{
		Results:      QuickCheck(text, docs, s.settings.QuickLimit),
		TotalChecked: len(docs),
	}
	finish(metrics.StatusOK)
	logger.Debug("Quick results: %d of %d", len(report.Results), report.TotalChecked)
	return report, nil
}

// RecursiveAnalysis scores every document pair and builds the longest chain.
func (s *EngineService) RecursiveAnalysis(ctx context.Context) (*domain.Analysis, error) {
	finish := s.metrics.CheckStarted(metrics.KindAnalysis)

	docs, err := s.documents(ctx)
	if err != nil {
		finish(statusOf(err))
		return nil, err
	}

	walker := NewTreeWalker(s.comparator, s.settings.ChainThreshold, s.settings.DefaultNGram, s.settings.MaxChainDepth)
	analysis, stats, err := walker.Walk(ctx, docs)
	s.metrics.CacheLookups(stats.Hits, stats.Misses)
	finish(statusOf(err))
	return analysis, err
}

// BatchStats aggregates corpus statistics.
func (s *EngineService) BatchStats(ctx context.Context) (*domain.BatchReport, error) {
	docs, err := s.documents(ctx)
	if err != nil {
		return nil, err
	}
	report := AggregateBatches(docs, s.settings.BatchSize)
	return &report, nil
}

// History returns recorded document checks, newest first.
func (s *EngineService) History(ctx context.Context, documentID string, limit int) ([]domain.CheckRecord, error) {
	if s.checkStore == nil {
		return []domain.CheckRecord{}, nil
	}
	return s.checkStore.ListChecks(ctx, documentID, limit)
}

// CacheStats returns the memoisation cache counters.
func (s *EngineService) CacheStats() domain.CacheStats {
	return s.cache.Stats()
}

// ResetCache clears the memoisation cache.
func (s *EngineService) ResetCache() {
	logger.Info("Resetting score cache")
	s.cache.Reset()
}

// documents reads the corpus snapshot used by one check.
func (s *EngineService) documents(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.store.Documents(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStreamInterrupted, err)
		}
		logger.Warn("Corpus read failed: %v", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrCorpusUnavailable, err)
	}
	logger.Debug("Corpus snapshot: %d documents", len(docs))
	return docs, nil
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return metrics.StatusOK
	case errors.Is(err, domain.ErrStreamInterrupted):
		return metrics.StatusInterrupted
	default:
		return metrics.StatusFailed
	}
}

// validateCheck rejects a request before any corpus scan.
func validateCheck(text string, n int, threshold float64) error {
	if err := validateText(text); err != nil {
		return err
	}
	return validateParams(n, threshold)
}

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: text must not be empty", domain.ErrInvalidParameter)
	}
	if l := utf8.RuneCountInString(text); l > domain.MaxTextLength {
		return fmt.Errorf("%w: text is %d characters, maximum is %d", domain.ErrInvalidParameter, l, domain.MaxTextLength)
	}
	return nil
}

func validateParams(n int, threshold float64) error {
	if n < domain.MinNGram || n > domain.MaxNGram {
		return fmt.Errorf("%w: n must be between %d and %d, got %d",
			domain.ErrInvalidParameter, domain.MinNGram, domain.MaxNGram, n)
	}
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return fmt.Errorf("%w: threshold must be within [0, 1], got %v", domain.ErrInvalidParameter, threshold)
	}
	return nil
}
