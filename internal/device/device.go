package device

import "sync"

// Type identifies a device variant.
type Type string

// Device variant tags. These values appear verbatim in the telemetry log.
const (
	TypeBulb       Type = "BULB"
	TypeThermostat Type = "THERMOSTAT"
	TypeCamera     Type = "CAMERA"
)

// AllTypes returns all valid device types.
func AllTypes() []Type {
	return []Type{TypeBulb, TypeThermostat, TypeCamera}
}

// Logger defines the logging interface used by devices and the roster.
// This allows different logging implementations to be used.
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

// Device is the capability set shared by every device variant.
//
// Exactly three types implement it: Bulb, Thermostat and Camera.
// Implementations are safe for concurrent use: every read-modify-write of
// a device's fields happens under that device's own lock, so the device's
// simulation task and the analytics pipeline never interleave partial
// updates.
type Device interface {
	// ID returns the unique device identifier.
	ID() string

	// Name returns the human-readable device name.
	Name() string

	// Location returns the room or area where the device is installed.
	Location() string

	// Type returns the variant tag.
	Type() Type

	// Connect marks the device as connected to the hub.
	Connect()

	// Disconnect marks the device as disconnected.
	Disconnect()

	// IsConnected reports the connection flag.
	IsConnected() bool

	// Snapshot returns an immutable capture of the device's current
	// fields. It has no side effects.
	Snapshot() Snapshot

	// ExecuteCommand applies a command to the device. It is synchronous,
	// mutates only this device's own fields, never blocks and never
	// fails: commands not recognised by the variant are silently ignored.
	ExecuteCommand(cmd Command)

	// SetLogger sets the logger used for validation warnings and command
	// activity. Devices default to a no-op logger.
	SetLogger(logger Logger)
}

// base carries the identity and connection state common to all variants.
// The mutex guards every mutable field of the embedding variant.
type base struct {
	id       string
	name     string
	location string

	mu        sync.Mutex
	connected bool
	logger    Logger
}

func newBase(id, name, location string) base {
	return base{
		id:       id,
		name:     name,
		location: location,
		logger:   noopLogger{},
	}
}

// ID returns the unique device identifier.
func (b *base) ID() string { return b.id }

// Name returns the human-readable device name.
func (b *base) Name() string { return b.name }

// Location returns the room or area where the device is installed.
func (b *base) Location() string { return b.location }

// Connect marks the device as connected to the hub.
func (b *base) Connect() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.connected = true
}

// Disconnect marks the device as disconnected.
func (b *base) Disconnect() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.connected = false
}

// IsConnected reports the connection flag.
func (b *base) IsConnected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connected
}

// SetLogger sets the logger used for validation warnings.
func (b *base) SetLogger(logger Logger) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if logger == nil {
		logger = noopLogger{}
	}
	b.logger = logger
}

// clampInt clamps v to the inclusive range [lo, hi] and reports whether
// clamping was applied.
func clampInt(v, lo, hi int) (int, bool) {
	switch {
	case v < lo:
		return lo, true
	case v > hi:
		return hi, true
	default:
		return v, false
	}
}
