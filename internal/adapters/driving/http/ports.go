// Package http exposes the engine over a JSON and server-sent events API
// built on gin.
package http

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/overlap/internal/core/ports/driving"
)

// ErrMissingEngineService is returned when the engine service is not provided.
var ErrMissingEngineService = errors.New("http: engine service is required")

// Ports aggregates the driving ports served by the API.
type Ports struct {
	// Engine runs checks and corpus analysis.
	Engine driving.EngineService

	// Document manages stored documents. Optional.
	Document driving.DocumentService

	// Activity feeds the monitoring endpoints. Optional.
	Activity driving.ActivityService

	// Gatherer backs /metrics. Optional.
	Gatherer prometheus.Gatherer

	// DefaultNGram is used when a request does not specify n.
	DefaultNGram int
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Engine == nil {
		return ErrMissingEngineService
	}
	return nil
}
