package device

import "sync"

// Roster is the fixed set of devices built by the orchestrator at startup.
//
// Devices are registered once and live for the process lifetime; there is
// no dynamic add or remove. The roster hands out the live device values —
// callers mutate devices only through their own thread-safe methods.
//
// All public methods are thread-safe.
type Roster struct {
	mu      sync.RWMutex
	devices map[string]Device
	order   []string // registration order, for stable iteration
	logger  Logger
}

// NewRoster creates a roster containing the given devices.
// Returns ErrDuplicateDevice if two devices share an ID.
func NewRoster(devices ...Device) (*Roster, error) {
	r := &Roster{
		devices: make(map[string]Device, len(devices)),
		order:   make([]string, 0, len(devices)),
		logger:  noopLogger{},
	}

	for _, d := range devices {
		if _, exists := r.devices[d.ID()]; exists {
			return nil, ErrDuplicateDevice
		}
		r.devices[d.ID()] = d
		r.order = append(r.order, d.ID())
	}

	return r, nil
}

// SetLogger sets the roster logger and propagates it to every device.
func (r *Roster) SetLogger(logger Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if logger == nil {
		logger = noopLogger{}
	}
	r.logger = logger
	for _, d := range r.devices {
		d.SetLogger(logger)
	}
}

// Get retrieves a device by ID.
// Returns ErrDeviceNotFound if the device does not exist.
func (r *Roster) Get(id string) (Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.devices[id]
	if !ok {
		return nil, ErrDeviceNotFound
	}
	return d, nil
}

// List returns all devices in registration order.
func (r *Roster) List() []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]Device, 0, len(r.order))
	for _, id := range r.order {
		devices = append(devices, r.devices[id])
	}
	return devices
}

// ListByType returns all devices of the given type, in registration order.
func (r *Roster) ListByType(t Type) []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var devices []Device
	for _, id := range r.order {
		if d := r.devices[id]; d.Type() == t {
			devices = append(devices, d)
		}
	}
	return devices
}

// Count returns the number of devices in the roster.
func (r *Roster) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}

// Stats holds roster statistics for startup logging and monitoring.
type Stats struct {
	TotalDevices int
	ByType       map[Type]int
	Connected    int
}

// GetStats returns current roster statistics.
func (r *Roster) GetStats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{
		TotalDevices: len(r.devices),
		ByType:       make(map[Type]int),
	}
	for _, d := range r.devices {
		stats.ByType[d.Type()]++
		if d.IsConnected() {
			stats.Connected++
		}
	}
	return stats
}
