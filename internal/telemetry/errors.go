package telemetry

import "errors"

// Common telemetry errors.
var (
	// ErrQueueClosed is returned by Push after Close has been called.
	ErrQueueClosed = errors.New("telemetry: queue closed")

	// ErrLogCorrupt is returned by the log reader when a line other than
	// the final one fails to parse.
	ErrLogCorrupt = errors.New("telemetry: log corrupt")
)
