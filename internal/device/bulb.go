package device

// Brightness bounds for a bulb.
const (
	minBrightness = 0
	maxBrightness = 100
)

// Bulb is a smart light. Its only autonomous behaviour is none at all: a
// bulb's state changes exclusively through commands (TOGGLE) and setters.
type Bulb struct {
	base

	brightness int
	isOn       bool
}

// NewBulb creates a bulb. Brightness outside [0,100] is clamped to the
// nearest bound. The bulb starts switched off.
func NewBulb(id, name, location string, brightness int) *Bulb {
	clamped, _ := clampInt(brightness, minBrightness, maxBrightness)
	return &Bulb{
		base:       newBase(id, name, location),
		brightness: clamped,
	}
}

// Type returns TypeBulb.
func (b *Bulb) Type() Type { return TypeBulb }

// Brightness returns the current brightness (0-100).
func (b *Bulb) Brightness() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.brightness
}

// SetBrightness sets the brightness, clamping out-of-range values to the
// nearest bound and logging a warning when clamping applies.
func (b *Bulb) SetBrightness(value int) {
	b.mu.Lock()
	clamped, adjusted := clampInt(value, minBrightness, maxBrightness)
	b.brightness = clamped
	logger := b.logger
	b.mu.Unlock()

	if adjusted {
		logger.Warn("brightness out of range, clamped",
			"device_id", b.id,
			"requested", value,
			"applied", clamped,
		)
	}
}

// IsOn reports whether the bulb is switched on.
func (b *Bulb) IsOn() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.isOn
}

// Snapshot returns an immutable capture of the bulb's fields.
func (b *Bulb) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return newSnapshot(b.id, TypeBulb, Payload{
		"brightness": b.brightness,
		"is_on":      b.isOn,
	})
}

// ExecuteCommand handles bulb commands. Only TOGGLE is recognised; all
// other commands are silently ignored.
func (b *Bulb) ExecuteCommand(cmd Command) {
	if cmd != CommandToggle {
		return
	}

	b.mu.Lock()
	b.isOn = !b.isOn
	on := b.isOn
	logger := b.logger
	b.mu.Unlock()

	logger.Debug("bulb toggled", "device_id", b.id, "is_on", on)
}
