// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/overlap/internal/core/domain"
)

// CheckStarted is sent once the engine has accepted (or rejected) the check.
type CheckStarted struct {
	Events <-chan domain.CheckEvent
	Err    error
}

// CheckEvent carries one record of a progressive check.
type CheckEvent struct {
	Event domain.CheckEvent
}

// StreamClosed is sent when the event channel is closed.
type StreamClosed struct{}
