package device

// Target temperature bounds for a thermostat. The current temperature is
// deliberately unbounded: its setter contract carries no range, so drift
// may take it outside [15,30] between analytics corrections.
const (
	minTargetTemp = 15.0
	maxTargetTemp = 30.0

	// tempStep is the temperature change applied by a single cooling or
	// heating command.
	tempStep = 1.0
)

// Thermostat is a climate control device tracking an ambient temperature
// against a bounded target.
type Thermostat struct {
	base

	currentTemp float64
	targetTemp  float64
	humidity    float64
}

// NewThermostat creates a thermostat. A target outside [15,30] is rejected
// and replaced with the default of 22.0, matching the setter contract.
func NewThermostat(id, name, location string, currentTemp, targetTemp, humidity float64) *Thermostat {
	if targetTemp < minTargetTemp || targetTemp > maxTargetTemp {
		targetTemp = 22.0
	}
	return &Thermostat{
		base:        newBase(id, name, location),
		currentTemp: currentTemp,
		targetTemp:  targetTemp,
		humidity:    humidity,
	}
}

// Type returns TypeThermostat.
func (t *Thermostat) Type() Type { return TypeThermostat }

// CurrentTemp returns the current temperature.
func (t *Thermostat) CurrentTemp() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentTemp
}

// SetCurrentTemp sets the current temperature. No bound is enforced.
func (t *Thermostat) SetCurrentTemp(value float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.currentTemp = value
}

// TargetTemp returns the target temperature.
func (t *Thermostat) TargetTemp() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.targetTemp
}

// SetTargetTemp sets the target temperature. Values outside [15,30] are
// rejected outright: the previous target is kept and a warning is logged.
func (t *Thermostat) SetTargetTemp(value float64) {
	t.mu.Lock()
	if value >= minTargetTemp && value <= maxTargetTemp {
		t.targetTemp = value
		t.mu.Unlock()
		return
	}
	kept := t.targetTemp
	logger := t.logger
	t.mu.Unlock()

	logger.Warn("target temperature out of safe range, rejected",
		"device_id", t.id,
		"requested", value,
		"kept", kept,
	)
}

// Humidity returns the current humidity.
func (t *Thermostat) Humidity() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.humidity
}

// SetHumidity sets the current humidity. No bound is enforced.
func (t *Thermostat) SetHumidity(value float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.humidity = value
}

// Drift applies an ambient temperature perturbation as one atomic
// read-modify-write step and returns the resulting temperature. Used by
// the device's simulation task each tick.
func (t *Thermostat) Drift(delta float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.currentTemp += delta
	return t.currentTemp
}

// Snapshot returns an immutable capture of the thermostat's fields.
func (t *Thermostat) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return newSnapshot(t.id, TypeThermostat, Payload{
		"current_temp": t.currentTemp,
		"target_temp":  t.targetTemp,
		"humidity":     t.humidity,
	})
}

// ExecuteCommand handles thermostat commands: TRIGGER_COOLING subtracts
// one step from the current temperature, TRIGGER_HEATING adds one. All
// other commands are silently ignored.
func (t *Thermostat) ExecuteCommand(cmd Command) {
	var delta float64
	switch cmd {
	case CommandTriggerCooling:
		delta = -tempStep
	case CommandTriggerHeating:
		delta = tempStep
	default:
		return
	}

	t.mu.Lock()
	t.currentTemp += delta
	temp := t.currentTemp
	logger := t.logger
	t.mu.Unlock()

	logger.Debug("thermostat adjusted",
		"device_id", t.id,
		"command", string(cmd),
		"current_temp", temp,
	)
}
