package tui

import "errors"

// ErrMissingEngineService is returned when the engine service is not provided.
var ErrMissingEngineService = errors.New("tui: engine service is required")
