package driving

import "github.com/custodia-labs/overlap/internal/core/domain"

// ActivityService records engine activity for the monitoring views.
type ActivityService interface {
	// Publish appends an event to the feed.
	Publish(name domain.ActivityName, payload map[string]any)

	// Recent returns up to limit events, newest first.
	Recent(limit int) []domain.ActivityEvent

	// Monitoring returns the aggregated monitoring panels.
	Monitoring() domain.MonitoringView
}
