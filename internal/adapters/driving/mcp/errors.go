// Package mcp provides an MCP (Model Context Protocol) server adapter for Overlap.
// It lets AI assistants run plagiarism checks against the local corpus.
package mcp

import "errors"

// ErrMissingEngineService is returned when the engine service is not provided.
var ErrMissingEngineService = errors.New("mcp: engine service is required")
