// Package simulation drives the device fleet.
//
// Each device gets one Task: a goroutine that simulates connection
// latency, marks the device connected, then loops on a randomised tick
// applying the variant's ambient behaviour and pushing a snapshot onto
// the telemetry queue. Cameras roll for motion and drain their battery
// (slowing down when it runs low); thermostats drift their measured
// temperature; bulbs are passive and only change when commanded.
//
// Manager owns the goroutines. It restarts a task whose run ends in a
// recovered panic, spacing attempts by the configured delay and giving
// up after the configured budget, so one misbehaving device never stops
// the fleet. Cancellation of the run context is the normal shutdown
// path and stops every task cleanly.
//
// Tasks share their devices with the analytics pipeline. All mutation
// goes through the device's own locked methods, so the two writers
// interleave safely without any coordination here.
package simulation
