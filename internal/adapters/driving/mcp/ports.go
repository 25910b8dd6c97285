package mcp

import (
	"github.com/custodia-labs/overlap/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Engine runs checks and corpus analysis.
	Engine driving.EngineService

	// Document exposes stored documents as resources.
	Document driving.DocumentService

	// DefaultNGram is used when a tool call does not specify n.
	DefaultNGram int
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Engine == nil {
		return ErrMissingEngineService
	}
	// Document is optional; without it no resources are served.
	return nil
}
