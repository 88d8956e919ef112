// Package telemetry moves device snapshots from the simulation tasks to
// durable storage.
//
// The data path is a single pipeline:
//
//	simulation tasks --> Queue --> Writer --> NDJSON log
//	                                  |--> sinks (history store, broker, metrics)
//
// Queue is an unbounded many-producer/single-consumer FIFO: producers
// never block and per-producer ordering is preserved. Writer is the only
// goroutine that touches the log file; it appends one JSON object per
// line and syncs after every record. Secondary sinks receive each
// snapshot after the log append and their failures are logged, never
// propagated.
//
// HistoryStore mirrors the log into SQLite for ad-hoc queries with a
// bounded retention window. ReadLog parses a log back into snapshots,
// tolerating the truncated final line a crash mid-append can leave.
//
// Shutdown order matters: cancel the simulation tasks first, then close
// the queue, then wait for the writer. The writer drains every buffered
// snapshot before exiting, so nothing accepted by Push is lost to a
// clean shutdown.
package telemetry
