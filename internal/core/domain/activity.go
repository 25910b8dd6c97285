package domain

import "time"

// ActivityName identifies a kind of activity event.
type ActivityName string

// Activity events published by the engine and document services.
const (
	ActivityTextSubmitted ActivityName = "TEXT_SUBMITTED"
	ActivityCheckDone     ActivityName = "CHECK_DONE"
	ActivityAlert         ActivityName = "ALERT"
)

// ActivityEvent is one entry of the monitoring feed.
type ActivityEvent struct {
	Name      ActivityName   `json:"name"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload"`
}

// Severity grades an alert.
type Severity string

// Alert severities.
const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SuspiciousMatch is a check or alert that needs attention.
type SuspiciousMatch struct {
	DocID      string    `json:"doc_id"`
	Similarity float64   `json:"similarity"`
	Message    string    `json:"message,omitempty"`
	Source     string    `json:"source"`
	Timestamp  time.Time `json:"timestamp"`
}

// ActivityStats summarises the monitoring feed.
type ActivityStats struct {
	TotalEvents  int        `json:"total_events"`
	Submissions  int        `json:"submissions"`
	Checks       int        `json:"checks"`
	Alerts       int        `json:"alerts"`
	LastActivity *time.Time `json:"last_activity"`
}

// MonitoringView bundles the monitoring panels.
type MonitoringView struct {
	RecentSubmissions []ActivityEvent   `json:"recent_submissions"`
	CheckResults      []ActivityEvent   `json:"check_results"`
	SuspiciousMatches []SuspiciousMatch `json:"suspicious_matches"`
	Stats             ActivityStats     `json:"activity_stats"`
}
