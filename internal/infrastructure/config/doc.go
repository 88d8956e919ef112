// Package config provides configuration loading for EcoHub Core.
//
// Configuration is read from a single YAML file. Defaults are applied
// first, then file values override them, then the result is validated.
// The only environment variable the application reads is ECOHUB_CONFIG,
// which points at the configuration file itself.
//
// # Usage
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    return err
//	}
//
//	minTick, maxTick := cfg.GetTickRange()
//
// # Sections
//
//   - site: installation identity (id, name, timezone)
//   - logging: level, format (json/text), output (stdout/stderr)
//   - database: SQLite path and pragmas for the telemetry history store
//   - telemetry: NDJSON log path and history mirroring settings
//   - simulation: device task timing and per-variant behaviour
//   - analytics: pipeline period and decision thresholds
//   - mqtt / influxdb: optional external sinks, disabled by default
//
// Duration-like values are stored as integers (milliseconds or seconds,
// named accordingly) with Get* accessors returning time.Duration.
package config
