// Package logging provides structured logging for EcoHub Core.
//
// It wraps the standard library's log/slog with configuration-driven
// setup (level, format, output) and default fields (service, version).
//
// # Usage
//
//	log := logging.New(cfg.Logging, version)
//	log.Info("device connected", "device_id", id)
//
//	// Component-scoped loggers
//	simLog := log.With("component", "simulation")
//
// Packages that need logging should declare their own small Logger
// interface and accept anything that satisfies it, keeping them
// decoupled from this package.
package logging
