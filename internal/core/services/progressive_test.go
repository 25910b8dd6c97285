package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/overlap/internal/core/domain"
)

func TestProgressiveCheck_Run_EventSequence(t *testing.T) {
	var outcome RunOutcome
	run := ProgressiveCheck{
		Comparator: NewComparator(newTestCache()),
		Corpus:     newStore(t, foxCorpus()...),
		OnFinish:   func(o RunOutcome) { outcome = o },
	}

	events := drain(run.Run(context.Background(), "the quick brown fox", 3, NewThreshold(0)), 5*time.Second)

	require.Len(t, events, 6)
	assert.Equal(t, domain.CheckEvent{Status: domain.CheckStarted, Total: 4}, events[0])

	progress := events[1:5]
	for i, ev := range progress {
		assert.Equal(t, domain.CheckProgress, ev.Status)
		assert.Equal(t, (i+1)*100/4, ev.Progress)
	}
	assert.Equal(t, 100, progress[3].Progress)
	require.NotNil(t, progress[0].Result)
	assert.Equal(t, "fox", progress[0].Result.DocID)
	assert.InDelta(t, 1.0, progress[0].Result.Similarity, 1e-9)
	for _, ev := range progress[1:] {
		assert.Nil(t, ev.Result)
	}

	assert.Equal(t, domain.CheckEvent{Status: domain.CheckCompleted, TotalResults: 1}, events[5])

	assert.Equal(t, domain.CheckCompleted, outcome.Status)
	assert.Equal(t, 4, outcome.Scored)
	assert.Equal(t, 1, outcome.Results)
	assert.Equal(t, uint64(4), outcome.Stats.Misses)
	assert.NoError(t, outcome.Err)
}

func TestProgressiveCheck_Run_ThresholdHidesWeakMatches(t *testing.T) {
	corpus := []domain.Document{
		{ID: "exact", Text: "the quick brown fox"},
		{ID: "partial", Text: "the quick brown fox jumps over"},
	}
	run := ProgressiveCheck{
		Comparator: NewComparator(newTestCache()),
		Corpus:     newStore(t, corpus...),
	}

	events := drain(run.Run(context.Background(), "the quick brown fox", 3, NewThreshold(0.8)), 5*time.Second)

	require.Len(t, events, 4)
	require.NotNil(t, events[1].Result)
	assert.Equal(t, "exact", events[1].Result.DocID)
	assert.Nil(t, events[2].Result)
	assert.Equal(t, 1, events[3].TotalResults)
}

func TestProgressiveCheck_Run_EmptyCorpus(t *testing.T) {
	run := ProgressiveCheck{
		Comparator: NewComparator(newTestCache()),
		Corpus:     newStore(t),
	}

	events := drain(run.Run(context.Background(), "the quick brown fox", 3, NewThreshold(0)), 5*time.Second)

	assert.Equal(t, []domain.CheckEvent{
		{Status: domain.CheckStarted, Total: 0},
		{Status: domain.CheckCompleted, TotalResults: 0},
	}, events)
}

func TestProgressiveCheck_Run_CorpusFailure(t *testing.T) {
	corpus := new(MockCorpus)
	corpus.On("Documents", mock.Anything).Return(nil, errors.New("disk on fire"))

	var outcome RunOutcome
	run := ProgressiveCheck{
		Comparator: NewComparator(newTestCache()),
		Corpus:     corpus,
		OnFinish:   func(o RunOutcome) { outcome = o },
	}

	events := drain(run.Run(context.Background(), "the quick brown fox", 3, NewThreshold(0)), 5*time.Second)

	require.Len(t, events, 1)
	assert.Equal(t, domain.CheckFailed, events[0].Status)
	assert.True(t, errors.Is(events[0].Err, domain.ErrCorpusUnavailable))
	assert.Contains(t, events[0].Err.Error(), "disk on fire")
	assert.Equal(t, domain.CheckFailed, outcome.Status)
	corpus.AssertExpectations(t)
}

func TestProgressiveCheck_Run_CancelledMidStream(t *testing.T) {
	finished := make(chan RunOutcome, 1)
	run := ProgressiveCheck{
		Comparator: NewComparator(newTestCache()),
		Corpus:     newStore(t, foxCorpus()...),
		OnFinish:   func(o RunOutcome) { finished <- o },
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := run.Run(ctx, "the quick brown fox", 3, NewThreshold(0))
	first := <-ch
	require.Equal(t, domain.CheckStarted, first.Status)
	cancel()

	var outcome RunOutcome
	select {
	case outcome = <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("producer did not stop after cancellation")
	}

	rest := drain(ch, time.Second)
	assert.Empty(t, rest)
	assert.Equal(t, domain.CheckProgress, outcome.Status)
	assert.True(t, errors.Is(outcome.Err, domain.ErrStreamInterrupted))
	assert.Less(t, outcome.Scored, 4)
}
