package analytics

import (
	"github.com/ecohub-labs/ecohub-core/internal/device"
	"github.com/ecohub-labs/ecohub-core/internal/infrastructure/config"
)

// Decision is one command the pipeline chose for one device, with the
// observation that justified it.
type Decision struct {
	DeviceID string
	Command  device.Command
	Reason   string
}

// Decision reasons, used in logs and alerts.
const (
	ReasonTooWarm    = "above_target"
	ReasonTooCold    = "below_target"
	ReasonBatteryLow = "battery_low"
	ReasonMotion     = "motion_detected"
	ReasonToggleRoll = "random_toggle"
)

// Decide inspects one snapshot and returns the command to issue, if any.
//
// The function is pure: it reads only the snapshot, the config and the
// supplied uniform sample, so every rule is testable without running the
// pipeline. The sample u (drawn from [0,1) by the caller) feeds the
// bulb's random toggle; the other rules ignore it.
//
// Rules per variant:
//   - Thermostat: current above target triggers cooling, below target
//     triggers heating, exactly on target does nothing.
//   - Camera: a battery below the threshold wins over everything and
//     requests a recharge; otherwise detected motion requests a snapshot.
//   - Bulb: toggled when u falls under the configured probability.
//
// Parameters:
//   - snap: Snapshot to evaluate
//   - cfg: Analytics thresholds and probabilities
//   - u: Uniform random sample in [0,1)
//
// Returns:
//   - Decision: Command and reason; zero value when ok is false
//   - bool: Whether a command should be issued
func Decide(snap device.Snapshot, cfg config.AnalyticsConfig, u float64) (Decision, bool) {
	switch snap.Type {
	case device.TypeThermostat:
		current, okCur := payloadFloat(snap.Payload, "current_temp")
		target, okTgt := payloadFloat(snap.Payload, "target_temp")
		if !okCur || !okTgt {
			return Decision{}, false
		}
		switch {
		case current > target:
			return Decision{DeviceID: snap.DeviceID, Command: device.CommandTriggerCooling, Reason: ReasonTooWarm}, true
		case current < target:
			return Decision{DeviceID: snap.DeviceID, Command: device.CommandTriggerHeating, Reason: ReasonTooCold}, true
		default:
			return Decision{}, false
		}

	case device.TypeCamera:
		battery, okBat := payloadFloat(snap.Payload, "battery_level")
		if okBat && battery < float64(cfg.LowBatteryThreshold) {
			return Decision{DeviceID: snap.DeviceID, Command: device.CommandLowBatteryWarning, Reason: ReasonBatteryLow}, true
		}
		if motion, ok := payloadBool(snap.Payload, "motion_detected"); ok && motion {
			return Decision{DeviceID: snap.DeviceID, Command: device.CommandTakeSnapshot, Reason: ReasonMotion}, true
		}
		return Decision{}, false

	case device.TypeBulb:
		if u < cfg.BulbToggleProbability {
			return Decision{DeviceID: snap.DeviceID, Command: device.CommandToggle, Reason: ReasonToggleRoll}, true
		}
		return Decision{}, false
	}

	return Decision{}, false
}

// payloadFloat reads a numeric payload field. Snapshots straight off a
// device carry int or float64 values; snapshots decoded from the log
// carry float64 only.
func payloadFloat(p device.Payload, key string) (float64, bool) {
	switch v := p[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// payloadBool reads a boolean payload field.
func payloadBool(p device.Payload, key string) (bool, bool) {
	v, ok := p[key].(bool)
	return v, ok
}
