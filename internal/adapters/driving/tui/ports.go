// Package tui renders a progressive plagiarism check in the terminal.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/overlap/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Engine runs the progressive check.
	Engine driving.EngineService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Engine == nil {
		return ErrMissingEngineService
	}
	return nil
}
