package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/overlap/internal/core/domain"
)

// newClockedActivity returns a feed whose clock advances one second per event.
func newClockedActivity(maxHistory int) *ActivityService {
	s := NewActivityService(maxHistory, 0)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func TestActivityService_RecentNewestFirst(t *testing.T) {
	s := newClockedActivity(0)
	s.Publish(domain.ActivityTextSubmitted, map[string]any{PayloadDocID: "a"})
	s.Publish(domain.ActivityCheckDone, map[string]any{PayloadDocID: "b"})
	s.Publish(domain.ActivityAlert, nil)

	events := s.Recent(0)

	require.Len(t, events, 3)
	assert.Equal(t, domain.ActivityAlert, events[0].Name)
	assert.NotNil(t, events[0].Payload)
	assert.Equal(t, "a", events[2].Payload[PayloadDocID])
	assert.Len(t, s.Recent(2), 2)
}

func TestActivityService_HistoryIsBounded(t *testing.T) {
	s := newClockedActivity(100)
	for i := 0; i < 150; i++ {
		s.Publish(domain.ActivityTextSubmitted, map[string]any{PayloadDocID: fmt.Sprintf("doc-%d", i)})
	}

	events := s.Recent(0)

	require.Len(t, events, 100)
	assert.Equal(t, "doc-149", events[0].Payload[PayloadDocID])
	assert.Equal(t, "doc-50", events[99].Payload[PayloadDocID])
}

func TestActivityService_Monitoring(t *testing.T) {
	s := newClockedActivity(0)
	for i := 0; i < 15; i++ {
		s.Publish(domain.ActivityTextSubmitted, map[string]any{PayloadDocID: fmt.Sprintf("sub-%d", i)})
	}
	for i := 0; i < 25; i++ {
		s.Publish(domain.ActivityCheckDone, map[string]any{PayloadDocID: fmt.Sprintf("chk-%d", i), PayloadSimilarity: 0.1})
	}

	view := s.Monitoring()

	assert.Len(t, view.RecentSubmissions, recentSubmissionsLimit)
	assert.Equal(t, "sub-14", view.RecentSubmissions[0].Payload[PayloadDocID])
	assert.Len(t, view.CheckResults, checkResultsLimit)
	assert.Equal(t, "chk-24", view.CheckResults[0].Payload[PayloadDocID])
	assert.Empty(t, view.SuspiciousMatches)
	assert.Equal(t, 40, view.Stats.TotalEvents)
	assert.Equal(t, 15, view.Stats.Submissions)
	assert.Equal(t, 25, view.Stats.Checks)
	assert.Zero(t, view.Stats.Alerts)
	require.NotNil(t, view.Stats.LastActivity)
}

func TestActivityService_SuspiciousMatches(t *testing.T) {
	s := newClockedActivity(0)
	s.Publish(domain.ActivityCheckDone, map[string]any{PayloadDocID: "low", PayloadSimilarity: 0.5})
	s.Publish(domain.ActivityCheckDone, map[string]any{PayloadDocID: "dup", PayloadSimilarity: 0.72})
	s.Publish(domain.ActivityCheckDone, map[string]any{PayloadDocID: "hit", PayloadSimilarity: 0.7})
	s.Publish(domain.ActivityAlert, map[string]any{PayloadDocID: "mild", PayloadSimilarity: 0.75})
	s.Publish(domain.ActivityAlert, map[string]any{
		PayloadDocID: "dup", PayloadSimilarity: 0.95, PayloadMessage: "suspicious match: 95%",
	})

	matches := s.SuspiciousMatches(defaultSuspiciousThreshold)

	require.Len(t, matches, 2)
	assert.Equal(t, "dup", matches[0].DocID)
	assert.Equal(t, "alert", matches[0].Source)
	assert.Equal(t, "suspicious match: 95%", matches[0].Message)
	assert.InDelta(t, 0.95, matches[0].Similarity, 1e-9)
	assert.Equal(t, "hit", matches[1].DocID)
	assert.Equal(t, "check", matches[1].Source)
	assert.True(t, matches[0].Timestamp.After(matches[1].Timestamp))
}

func TestActivityService_MonitoringUsesThreshold(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		expected  []string
	}{
		{name: "default", threshold: 0, expected: []string{"copied", "close"}},
		{name: "raised", threshold: 0.9, expected: []string{"copied"}},
		{name: "lowered", threshold: 0.5, expected: []string{"copied", "close", "loose"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewActivityService(0, tt.threshold)
			base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
			tick := 0
			s.now = func() time.Time {
				tick++
				return base.Add(time.Duration(tick) * time.Second)
			}
			s.Publish(domain.ActivityCheckDone, map[string]any{PayloadDocID: "loose", PayloadSimilarity: 0.6})
			s.Publish(domain.ActivityCheckDone, map[string]any{PayloadDocID: "close", PayloadSimilarity: 0.8})
			s.Publish(domain.ActivityCheckDone, map[string]any{PayloadDocID: "copied", PayloadSimilarity: 0.95})

			var ids []string
			for _, m := range s.Monitoring().SuspiciousMatches {
				ids = append(ids, m.DocID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestActivityService_SuspiciousMatchesCapped(t *testing.T) {
	s := newClockedActivity(0)
	for i := 0; i < 30; i++ {
		s.Publish(domain.ActivityCheckDone, map[string]any{PayloadDocID: fmt.Sprintf("doc-%d", i), PayloadSimilarity: 0.9})
	}

	assert.Len(t, s.SuspiciousMatches(defaultSuspiciousThreshold), suspiciousLimit)
}

func TestActivityService_StatsEmpty(t *testing.T) {
	stats := NewActivityService(0, 0).Stats()

	assert.Zero(t, stats.TotalEvents)
	assert.Nil(t, stats.LastActivity)
}

func TestActivityService_ConcurrentPublish(t *testing.T) {
	s := NewActivityService(50, 0)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				s.Publish(domain.ActivityCheckDone, map[string]any{PayloadSimilarity: 0.9})
				_ = s.Monitoring()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.Stats().TotalEvents)
}

func TestPayloadHelpers(t *testing.T) {
	p := map[string]any{"s": "x", "f": 0.5, "i": 2, "bad": true}

	assert.Equal(t, "x", payloadString(p, "s"))
	assert.Empty(t, payloadString(p, "f"))
	assert.InDelta(t, 0.5, payloadFloat(p, "f"), 1e-9)
	assert.InDelta(t, 2.0, payloadFloat(p, "i"), 1e-9)
	assert.Zero(t, payloadFloat(p, "bad"))
	assert.Zero(t, payloadFloat(p, "missing"))
}
