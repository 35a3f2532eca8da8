package engine

import "errors"

var (
	// ErrEngineUnavailable means the engine process or thread group failed
	// to start. Fatal for the owning widget.
	ErrEngineUnavailable = errors.New("engine: engine unavailable")

	// ErrInvalidURL is returned synchronously for URLs rejected before
	// dispatch. Recoverable; the caller may retry with a corrected URL.
	ErrInvalidURL = errors.New("engine: invalid URL")

	// ErrSessionClosed is returned for operations on a session after
	// shutdown has begun.
	ErrSessionClosed = errors.New("engine: session closed")
)
