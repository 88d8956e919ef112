// Package device provides the device model for EcoHub Core.
//
// Exactly three variants implement the Device interface — Bulb,
// Thermostat and Camera — sharing the capability set {Connect,
// Disconnect, Snapshot, ExecuteCommand}. The Roster is the fixed set of
// devices built once at startup.
//
// # Key Types
//
//   - Device: the capability set every variant implements
//   - Snapshot: immutable point-in-time capture of one device's fields
//   - Command: instruction applied via ExecuteCommand (TOGGLE, ...)
//   - Roster: fixed, thread-safe device lookup built by the orchestrator
//
// # Validation
//
// Numeric setters clamp out-of-range input to the nearest bound
// (brightness and battery level, both 0-100) and warn. The one exception
// is a thermostat's target temperature: writes outside [15,30] are
// rejected outright and the previous value kept. A thermostat's current
// temperature has no enforced bound — ambient drift may carry it outside
// the target range until the analytics pipeline corrects it.
//
// # Concurrency
//
// Every device guards its mutable fields with its own mutex, held for
// the full duration of each read-modify-write step (setters, commands,
// tick mutations, snapshots). A device's simulation task and the
// analytics pipeline may therefore act on the same device concurrently
// without interleaving partial updates: each device has exactly one
// writer at a time.
//
// # Usage
//
//	bulb := device.NewBulb("bulb-01", "Living Room Light", "Living Room", 80)
//	therm := device.NewThermostat("therm-01", "Thermostat", "Bedroom", 20.0, 22.0, 40.0)
//
//	roster, err := device.NewRoster(bulb, therm)
//	if err != nil {
//	    return err
//	}
//	roster.SetLogger(log)
//
//	snap := therm.Snapshot()            // read-only capture
//	therm.ExecuteCommand(device.CommandTriggerHeating)
package device
