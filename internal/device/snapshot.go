package device

import "time"

// Payload holds a snapshot's variant-specific fields as a JSON map.
//
// Examples:
//   - Bulb: {"brightness": 80, "is_on": true}
//   - Thermostat: {"current_temp": 21.5, "target_temp": 22.0, "humidity": 40.0}
//   - Camera: {"battery_level": 87, "motion_detected": false, "last_snapshot": 1.75e9}
type Payload map[string]any

// Snapshot is an immutable point-in-time capture of one device's fields.
// It is the unit of telemetry: produced by Device.Snapshot, queued for
// persistence, and read by the analytics pipeline. Never mutated after
// creation.
type Snapshot struct {
	DeviceID  string  `json:"device_id"`
	Type      Type    `json:"type"`
	Timestamp float64 `json:"timestamp"` // unix seconds
	Payload   Payload `json:"payload"`
}

// newSnapshot stamps a snapshot with the current time.
func newSnapshot(id string, t Type, payload Payload) Snapshot {
	return Snapshot{
		DeviceID:  id,
		Type:      t,
		Timestamp: unixSeconds(time.Now()),
		Payload:   payload,
	}
}

// unixSeconds converts a time to float64 unix seconds, the timestamp
// format used throughout the telemetry log.
func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
