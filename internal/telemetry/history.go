package telemetry

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ecohub-labs/ecohub-core/internal/device"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// HistoryEntry is one row of the telemetry history table.
type HistoryEntry struct {
	ID         int64          `json:"id"`
	RunID      string         `json:"run_id"`
	DeviceID   string         `json:"device_id"`
	DeviceType device.Type    `json:"device_type"`
	CapturedAt float64        `json:"captured_at"`
	Payload    device.Payload `json:"payload"`
	CreatedAt  time.Time      `json:"created_at"`
}

// HistoryStore mirrors persisted snapshots into SQLite for ad-hoc
// queries and retention-bounded auditing. The NDJSON log remains the
// primary record; this store is a secondary sink and its failures never
// block the writer.
//
// It implements the Sink interface.
type HistoryStore struct {
	db    *sql.DB
	runID string
}

// NewHistoryStore creates a history store tagging every row with the
// given run identifier.
//
// Parameters:
//   - db: Open SQLite connection with migrations applied
//   - runID: Identifier of the current process run (one UUID per start)
//
// Returns:
//   - *HistoryStore: Store instance ready for use
func NewHistoryStore(db *sql.DB, runID string) *HistoryStore {
	return &HistoryStore{db: db, runID: runID}
}

// Record inserts one snapshot into the history table.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - snap: Snapshot to persist
//
// Returns:
//   - error: nil on success, otherwise the underlying database error
func (s *HistoryStore) Record(ctx context.Context, snap device.Snapshot) error {
	if snap.DeviceID == "" {
		return fmt.Errorf("device id is required")
	}

	payloadJSON, err := json.Marshal(snap.Payload)
	if err != nil {
		return fmt.Errorf("marshalling payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO telemetry_history (run_id, device_id, device_type, captured_at, payload) VALUES (?, ?, ?, ?, ?)",
		s.runID,
		snap.DeviceID,
		string(snap.Type),
		snap.Timestamp,
		string(payloadJSON),
	)
	if err != nil {
		return fmt.Errorf("inserting telemetry history: %w", err)
	}

	return nil
}

// GetHistory returns recent history entries for a device, ordered newest
// first.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - deviceID: Unique device identifier
//   - limit: Maximum entries to return (default 50, max 200)
//
// Returns:
//   - []HistoryEntry: Entries ordered by id DESC
//   - error: nil on success, otherwise the underlying query error
func (s *HistoryStore) GetHistory(ctx context.Context, deviceID string, limit int) ([]HistoryEntry, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("device id is required")
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, device_id, device_type, captured_at, payload, created_at
		 FROM telemetry_history
		 WHERE device_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		deviceID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying telemetry history: %w", err)
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0, limit)
	for rows.Next() {
		var entry HistoryEntry
		var deviceType string
		var payloadJSON string
		var createdAt string

		if err := rows.Scan(&entry.ID, &entry.RunID, &entry.DeviceID, &deviceType, &entry.CapturedAt, &payloadJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning telemetry history: %w", err)
		}
		entry.DeviceType = device.Type(deviceType)

		if err := json.Unmarshal([]byte(payloadJSON), &entry.Payload); err != nil {
			return nil, fmt.Errorf("unmarshalling payload: %w", err)
		}

		timestamp, err := parseHistoryTimestamp(createdAt)
		if err != nil {
			return nil, err
		}
		entry.CreatedAt = timestamp

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating telemetry history: %w", err)
	}

	return entries, nil
}

// Prune deletes history entries older than the given duration.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - olderThan: Retention window (entries older than now-olderThan are deleted)
//
// Returns:
//   - int64: Number of rows deleted
//   - error: nil on success, otherwise the underlying database error
func (s *HistoryStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("olderThan must be positive")
	}

	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339)
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM telemetry_history WHERE created_at < ?",
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting telemetry history: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}

	return rowsAffected, nil
}

// parseHistoryTimestamp parses a created_at value stored by SQLite.
func parseHistoryTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("created_at is empty")
	}

	timestamp, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return timestamp, nil
	}

	fallback, fallbackErr := time.Parse("2006-01-02T15:04:05Z", value)
	if fallbackErr == nil {
		return fallback, nil
	}

	return time.Time{}, fmt.Errorf("parsing created_at: %w", err)
}
