package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/overlap/internal/core/domain"
	"github.com/custodia-labs/overlap/internal/core/ports/driven"
	"github.com/custodia-labs/overlap/internal/logger"
	"github.com/custodia-labs/overlap/internal/similarity"
)

// RunOutcome summarises a finished progressive run.
type RunOutcome struct {
	// Status is the terminal state, or CheckProgress when the run was
	// interrupted before reaching one.
	Status  domain.CheckStatus
	Scored  int
	Results int
	Stats   CompareStats
	Err     error
}

// ProgressiveCheck streams a check over the corpus one document at a time.
type ProgressiveCheck struct {
	Comparator *Comparator
	Corpus     driven.Corpus

	// OnFinish, if set, is called once from the producer goroutine after
	// the channel is closed.
	OnFinish func(RunOutcome)
}

// Run starts the producer and returns its event channel.
//
// The sequence is started{total}, one progress event per document in
// corpus order, then completed{total_results}. A corpus read failure
// yields a single failed event instead. The channel is unbuffered, so each
// document is handed to the consumer before the next is scored. Cancelling
// ctx stops the producer between documents and closes the channel without
// a terminal event.
func (p ProgressiveCheck) Run(ctx context.Context, text string, n int, threshold Threshold) <-chan domain.CheckEvent {
	out := make(chan domain.CheckEvent)

	go func() {
		outcome := RunOutcome{Status: domain.CheckProgress}
		defer func() {
			close(out)
			if p.OnFinish != nil {
				p.OnFinish(outcome)
			}
		}()

		send := func(ev domain.CheckEvent) bool {
			select {
			case out <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}
		interrupted := func() {
			outcome.Err = fmt.Errorf("%w: %w", domain.ErrStreamInterrupted, context.Cause(ctx))
			logger.Debug("Progressive check stopped after %d documents", outcome.Scored)
		}

		docs, err := p.Corpus.Documents(ctx)
		if err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				interrupted()
				return
			}
			outcome.Status = domain.CheckFailed
			outcome.Err = fmt.Errorf("%w: %w", domain.ErrCorpusUnavailable, err)
			logger.Warn("Progressive check failed: %v", outcome.Err)
			send(domain.CheckEvent{Status: domain.CheckFailed, Err: outcome.Err})
			return
		}

		total := len(docs)
		if !send(domain.CheckEvent{Status: domain.CheckStarted, Total: total}) {
			interrupted()
			return
		}

		subject := NewSubject(text)
		shingles := similarity.Shingles(subject.Tokens, n)
		for i, doc := range docs {
			if ctx.Err() != nil {
				interrupted()
				return
			}

			score, hit := p.Comparator.Similarity(subject, shingles, doc, n)
			if hit {
				outcome.Stats.Hits++
			} else {
				outcome.Stats.Misses++
			}
			outcome.Scored++

			ev := domain.CheckEvent{Status: domain.CheckProgress, Progress: (i + 1) * 100 / total}
			result := domain.NewSimilarityResult(doc, score)
			if score > 0 && threshold.Keep(result) {
				ev.Result = &result
				outcome.Results++
			}
			if !send(ev) {
				interrupted()
				return
			}
		}

		if !send(domain.CheckEvent{Status: domain.CheckCompleted, TotalResults: outcome.Results}) {
			interrupted()
			return
		}
		outcome.Status = domain.CheckCompleted
	}()

	return out
}
