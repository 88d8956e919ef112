package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ecohub-labs/ecohub-core/internal/device"
)

// Logger defines the logging interface used by the telemetry package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Sink receives every snapshot the writer persists, after the NDJSON log
// line has been written. Sinks are secondary outputs (history store,
// broker fan-out, metrics); a sink error is logged and never stops the
// writer or affects the log file.
type Sink interface {
	Record(ctx context.Context, snap device.Snapshot) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, snap device.Snapshot) error

// Record calls f.
func (f SinkFunc) Record(ctx context.Context, snap device.Snapshot) error {
	return f(ctx, snap)
}

// Writer is the single persistence worker. It drains the queue and
// appends one JSON object per line to the telemetry log, syncing after
// every record so a crash loses at most the line being written.
//
// Exactly one Writer runs per process; it is the only goroutine that
// touches the log file.
type Writer struct {
	queue  *Queue
	file   *os.File
	sinks  []Sink
	logger Logger

	written int64
	failed  int64
}

// NewWriter opens (or creates) the telemetry log for appending and
// returns a writer draining the given queue.
//
// Parameters:
//   - path: Telemetry log file path; parent directories are created
//   - queue: Queue to drain; the writer exits when it is closed and empty
//   - sinks: Optional secondary outputs, invoked after each log append
//
// Returns:
//   - *Writer: Writer ready for Run
//   - error: nil on success, otherwise the file open error
func NewWriter(path string, queue *Queue, sinks ...Sink) (*Writer, error) {
	if path == "" {
		return nil, fmt.Errorf("telemetry log path is required")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating telemetry log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening telemetry log: %w", err)
	}

	return &Writer{
		queue:  queue,
		file:   file,
		sinks:  sinks,
		logger: noopLogger{},
	}, nil
}

// SetLogger sets the logger used for I/O failures and progress reporting.
func (w *Writer) SetLogger(logger Logger) {
	if logger != nil {
		w.logger = logger
	}
}

// Run drains the queue until it is closed and empty, then closes the log
// file. A failed append is logged and the snapshot is skipped; the writer
// keeps running so one bad write never stalls the fleet.
//
// The context bounds sink calls only: closing the queue, not cancelling
// the context, is what stops the loop. That ordering lets shutdown drain
// every buffered snapshot before the writer exits.
func (w *Writer) Run(ctx context.Context) error {
	defer w.file.Close()

	for {
		snap, ok := w.queue.Pop()
		if !ok {
			break
		}

		if err := w.append(snap); err != nil {
			w.failed++
			w.logger.Error("telemetry append failed",
				"device_id", snap.DeviceID,
				"error", err)
			continue
		}
		w.written++

		for _, sink := range w.sinks {
			if err := sink.Record(ctx, snap); err != nil {
				w.logger.Warn("telemetry sink failed",
					"sink", fmt.Sprintf("%T", sink),
					"device_id", snap.DeviceID,
					"error", err)
			}
		}
	}

	w.logger.Info("telemetry writer stopped",
		"records_written", w.written,
		"records_failed", w.failed)

	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("syncing telemetry log: %w", err)
	}
	return nil
}

// append marshals one snapshot and writes it as a single NDJSON line,
// syncing to disk before returning.
func (w *Writer) append(snap device.Snapshot) error {
	line, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshalling snapshot: %w", err)
	}
	line = append(line, '\n')

	if _, err := w.file.Write(line); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("syncing snapshot: %w", err)
	}
	return nil
}

// Written returns the number of records successfully appended. Intended
// for shutdown reporting after Run has returned.
func (w *Writer) Written() int64 { return w.written }

// Failed returns the number of records dropped on append failure.
func (w *Writer) Failed() int64 { return w.failed }
