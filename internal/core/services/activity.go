package services

import (
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/overlap/internal/core/domain"
	"github.com/custodia-labs/overlap/internal/core/ports/driving"
)

// Ensure ActivityService implements the interface.
var _ driving.ActivityService = (*ActivityService)(nil)

const (
	defaultActivityHistory     = 100
	defaultSuspiciousThreshold = 0.7
	recentSubmissionsLimit     = 10
	checkResultsLimit          = 20
	suspiciousScanLimit        = 50
	suspiciousLimit            = 20
	attentionThreshold         = 0.8
)

// Payload keys shared by publishers and views.
const (
	PayloadDocID      = "doc_id"
	PayloadTitle      = "title"
	PayloadAuthor     = "author"
	PayloadTextLength = "text_length"
	PayloadSimilarity = "similarity"
	PayloadMatchedID  = "matched_doc_id"
	PayloadSeverity   = "severity"
	PayloadMessage    = "message"
)

// ActivityService is an in-memory activity feed with bounded history.
type ActivityService struct {
	mu         sync.RWMutex
	history    []domain.ActivityEvent
	maxHistory int
	threshold  float64
	now        func() time.Time
}

// NewActivityService creates a feed keeping the last maxHistory events.
// Checks scoring at least threshold are listed as suspicious in the
// monitoring view; threshold <= 0 uses the default alert threshold.
func NewActivityService(maxHistory int, threshold float64) *ActivityService {
	if maxHistory <= 0 {
		maxHistory = defaultActivityHistory
	}
	if threshold <= 0 {
		threshold = defaultSuspiciousThreshold
	}
	return &ActivityService{
		maxHistory: maxHistory,
		threshold:  threshold,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Publish appends an event, dropping the oldest beyond the history limit.
func (s *ActivityService) Publish(name domain.ActivityName, payload map[string]any) {
	if payload == nil {
		payload = map[string]any{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, domain.ActivityEvent{
		Name:      name,
		Timestamp: s.now(),
		Payload:   payload,
	})
	if over := len(s.history) - s.maxHistory; over > 0 {
		s.history = append(s.history[:0:0], s.history[over:]...)
	}
}

// Recent returns up to limit events, newest first. limit <= 0 returns all.
func (s *ActivityService) Recent(limit int) []domain.ActivityEvent {
	return s.events("", limit)
}

// events returns events named name ("" for any), newest first.
func (s *ActivityService) events(name domain.ActivityName, limit int) []domain.ActivityEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ActivityEvent, 0)
	for i := len(s.history) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		if name == "" || s.history[i].Name == name {
			out = append(out, s.history[i])
		}
	}
	return out
}

// Monitoring returns the monitoring panels.
func (s *ActivityService) Monitoring() domain.MonitoringView {
	return domain.MonitoringView{
		RecentSubmissions: s.events(domain.ActivityTextSubmitted, recentSubmissionsLimit),
		CheckResults:      s.events(domain.ActivityCheckDone, checkResultsLimit),
		SuspiciousMatches: s.SuspiciousMatches(s.threshold),
		Stats:             s.Stats(),
	}
}

// SuspiciousMatches lists checks scoring at least threshold and alerts that
// require attention, one entry per document (the newest), newest first.
func (s *ActivityService) SuspiciousMatches(threshold float64) []domain.SuspiciousMatch {
	var candidates []domain.SuspiciousMatch
	for _, e := range s.events(domain.ActivityCheckDone, suspiciousScanLimit) {
		if sim := payloadFloat(e.Payload, PayloadSimilarity); sim >= threshold {
			candidates = append(candidates, domain.SuspiciousMatch{
				DocID:      payloadString(e.Payload, PayloadDocID),
				Similarity: sim,
				Source:     "check",
				Timestamp:  e.Timestamp,
			})
		}
	}
	for _, e := range s.events(domain.ActivityAlert, suspiciousScanLimit) {
		if sim := payloadFloat(e.Payload, PayloadSimilarity); sim > attentionThreshold {
			candidates = append(candidates, domain.SuspiciousMatch{
				DocID:      payloadString(e.Payload, PayloadDocID),
				Similarity: sim,
				Message:    payloadString(e.Payload, PayloadMessage),
				Source:     "alert",
				Timestamp:  e.Timestamp,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Timestamp.After(candidates[j].Timestamp)
	})

	out := make([]domain.SuspiciousMatch, 0, len(candidates))
	seen := make(map[string]struct{})
	for _, c := range candidates {
		if _, dup := seen[c.DocID]; dup {
			continue
		}
		seen[c.DocID] = struct{}{}
		out = append(out, c)
		if len(out) == suspiciousLimit {
			break
		}
	}
	return out
}

// Stats summarises the retained history.
func (s *ActivityService) Stats() domain.ActivityStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := domain.ActivityStats{TotalEvents: len(s.history)}
	for _, e := range s.history {
		switch e.Name {
		case domain.ActivityTextSubmitted:
			stats.Submissions++
		case domain.ActivityCheckDone:
			stats.Checks++
		case domain.ActivityAlert:
			stats.Alerts++
		}
	}
	if n := len(s.history); n > 0 {
		last := s.history[n-1].Timestamp
		stats.LastActivity = &last
	}
	return stats
}

func payloadString(p map[string]any, key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

func payloadFloat(p map[string]any, key string) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}
