package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidParameter indicates a request was rejected before any corpus scan,
	// e.g. n outside 2..5, empty text or a threshold outside [0,1].
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrCorpusUnavailable indicates the corpus accessor could not be reached.
	ErrCorpusUnavailable = errors.New("corpus unavailable")

	// ErrStreamInterrupted indicates the caller went away mid-stream.
	// It is a cancellation signal, not a failure.
	ErrStreamInterrupted = errors.New("stream interrupted")

	// ErrUnsupportedType indicates an unknown storage backend or file type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrReadOnly indicates the configured corpus does not accept writes.
	ErrReadOnly = errors.New("corpus is read-only")
)
