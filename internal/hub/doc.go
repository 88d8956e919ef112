// Package hub is EcoHub's composition root.
//
// The Hub builds the standard twelve-device roster, the telemetry queue
// and writer with whatever optional sinks the caller wired (SQLite
// history, MQTT fan-out, InfluxDB metrics), the per-device simulation
// tasks and the analytics pipeline, then runs them as one unit.
//
// Run blocks until its context is cancelled, typically by SIGINT or
// SIGTERM, and shuts the components down in dependency order: producers
// first, then the queue, then the draining writer. A clean shutdown
// loses no accepted snapshot and returns nil, which main translates to
// exit code 0.
package hub
