// Package analytics closes the control loop over the device fleet.
//
// On a fixed interval the Pipeline snapshots every roster device, runs
// the decision rules in Decide over each snapshot and applies the
// chosen commands back to the devices. Decide is a pure function of the
// snapshot, the config and an explicitly supplied random sample, which
// keeps every rule unit-testable in isolation.
//
// The rules: thermostats are nudged toward their target temperature one
// degree per cycle; cameras with a low battery get a recharge command
// before anything else, otherwise detected motion triggers a snapshot;
// bulbs are toggled with a small configured probability to simulate
// occupants.
//
// Each cycle also aggregates the mean thermostat temperature and feeds
// it, with command and alert counts, to an optional metrics sink.
package analytics
