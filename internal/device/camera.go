package device

import "time"

// Battery bounds for a camera.
const (
	minBattery = 0
	maxBattery = 100

	// fullBattery is the level set by a simulated recharge.
	fullBattery = 100
)

// Camera is a security camera with a battery, a motion flag and a record
// of when it last took a snapshot image.
type Camera struct {
	base

	batteryLevel   int
	motionDetected bool
	lastSnapshot   float64 // unix seconds
}

// NewCamera creates a camera. Battery outside [0,100] is clamped to the
// nearest bound; the last snapshot time defaults to the creation time.
func NewCamera(id, name, location string, batteryLevel int) *Camera {
	clamped, _ := clampInt(batteryLevel, minBattery, maxBattery)
	return &Camera{
		base:         newBase(id, name, location),
		batteryLevel: clamped,
		lastSnapshot: unixSeconds(time.Now()),
	}
}

// Type returns TypeCamera.
func (c *Camera) Type() Type { return TypeCamera }

// BatteryLevel returns the battery level (0-100).
func (c *Camera) BatteryLevel() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.batteryLevel
}

// SetBatteryLevel sets the battery level, clamping out-of-range values to
// the nearest bound and logging a warning when clamping applies.
func (c *Camera) SetBatteryLevel(value int) {
	c.mu.Lock()
	clamped, adjusted := clampInt(value, minBattery, maxBattery)
	c.batteryLevel = clamped
	logger := c.logger
	c.mu.Unlock()

	if adjusted {
		logger.Warn("battery level out of range, clamped",
			"device_id", c.id,
			"requested", value,
			"applied", clamped,
		)
	}
}

// MotionDetected reports the motion flag.
func (c *Camera) MotionDetected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.motionDetected
}

// LastSnapshot returns the unix-seconds timestamp of the last snapshot.
func (c *Camera) LastSnapshot() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSnapshot
}

// ObserveMotion records one simulation tick as a single atomic step: the
// motion flag is set to detected, the battery is drained by the given
// amount (floored at 0), and the resulting level is returned so the task
// can apply its low-battery slowdown.
func (c *Camera) ObserveMotion(detected bool, drain int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.motionDetected = detected
	if drain > 0 {
		c.batteryLevel, _ = clampInt(c.batteryLevel-drain, minBattery, maxBattery)
	}
	return c.batteryLevel
}

// Snapshot returns an immutable capture of the camera's fields.
func (c *Camera) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return newSnapshot(c.id, TypeCamera, Payload{
		"battery_level":   c.batteryLevel,
		"motion_detected": c.motionDetected,
		"last_snapshot":   c.lastSnapshot,
	})
}

// ExecuteCommand handles camera commands: TAKE_SNAPSHOT stamps the last
// snapshot time, LOW_BATTERY_WARNING recharges the battery to full. All
// other commands are silently ignored.
func (c *Camera) ExecuteCommand(cmd Command) {
	switch cmd {
	case CommandTakeSnapshot:
		c.mu.Lock()
		c.lastSnapshot = unixSeconds(time.Now())
		taken := c.lastSnapshot
		logger := c.logger
		c.mu.Unlock()

		logger.Debug("snapshot taken", "device_id", c.id, "at", taken)

	case CommandLowBatteryWarning:
		c.mu.Lock()
		c.batteryLevel = fullBattery
		logger := c.logger
		c.mu.Unlock()

		logger.Info("camera recharged after low battery warning", "device_id", c.id)
	}
}
