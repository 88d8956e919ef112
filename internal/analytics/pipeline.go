package analytics

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/ecohub-labs/ecohub-core/internal/device"
	"github.com/ecohub-labs/ecohub-core/internal/infrastructure/config"
)

// Logger defines the logging interface used by the analytics package.
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

// MetricsSink receives per-cycle aggregates. Satisfied by the InfluxDB
// client; nil disables metric export.
type MetricsSink interface {
	WriteAnalyticsCycle(meanTemp float64, thermostats, commands, alerts int)
}

// CycleReport summarises one analytics cycle.
type CycleReport struct {
	// Devices is the number of snapshots evaluated.
	Devices int

	// Thermostats is the number of thermostats contributing to MeanTemp.
	Thermostats int

	// MeanTemp is the mean thermostat current temperature. Zero when
	// Thermostats is zero; check that field before using this one.
	MeanTemp float64

	// Decisions are the commands issued this cycle.
	Decisions []Decision

	// Alerts counts anomaly decisions: low battery and temperature
	// corrections. Both are surfaced at warning level.
	Alerts int
}

// Pipeline periodically reads the whole fleet and reacts to it.
//
// Every cycle it snapshots each device, runs the pure decision rules
// over the snapshots, applies the resulting commands back to the devices
// and records aggregate metrics. Devices are mutated only through
// ExecuteCommand, so the pipeline coexists with the per-device
// simulation tasks without extra locking.
type Pipeline struct {
	roster  *device.Roster
	cfg     *config.Config
	metrics MetricsSink
	logger  Logger

	rng   *rand.Rand
	rngMu sync.Mutex

	mu     sync.Mutex
	cycles int64
}

// NewPipeline creates a pipeline over the given roster.
//
// Parameters:
//   - roster: Fleet to observe and command
//   - cfg: Analytics interval, thresholds and probabilities
//   - metrics: Optional per-cycle metrics sink (nil to disable)
//
// Returns:
//   - *Pipeline: Pipeline ready for Run
func NewPipeline(roster *device.Roster, cfg *config.Config, metrics MetricsSink) *Pipeline {
	return &Pipeline{
		roster:  roster,
		cfg:     cfg,
		metrics: metrics,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger used for cycle summaries and alerts.
func (p *Pipeline) SetLogger(logger Logger) {
	if logger != nil {
		p.logger = logger
	}
}

// Cycles returns the number of completed analytics cycles.
func (p *Pipeline) Cycles() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cycles
}

// Run executes cycles on the configured fixed interval until the context
// is cancelled. Cancellation is the normal stop and returns nil.
func (p *Pipeline) Run(ctx context.Context) error {
	interval := p.cfg.GetAnalyticsInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.logger.Info("analytics pipeline started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("analytics pipeline stopped", "cycles", p.Cycles())
			return nil
		case <-ticker.C:
			report := p.RunCycle(ctx)
			p.mu.Lock()
			p.cycles++
			p.mu.Unlock()

			p.logger.Info("analytics cycle complete",
				"devices", report.Devices,
				"thermostats", report.Thermostats,
				"mean_temp", report.MeanTemp,
				"commands", len(report.Decisions),
				"alerts", report.Alerts)
		}
	}
}

// RunCycle performs one full observe-decide-act cycle and returns its
// report. Exposed for tests and for a final cycle during shutdown
// diagnostics.
func (p *Pipeline) RunCycle(ctx context.Context) CycleReport {
	var report CycleReport
	analyticsCfg := p.cfg.Analytics

	var tempSum float64
	for _, dev := range p.roster.List() {
		select {
		case <-ctx.Done():
			return report
		default:
		}

		snap := dev.Snapshot()
		report.Devices++

		if snap.Type == device.TypeThermostat {
			if temp, ok := payloadFloat(snap.Payload, "current_temp"); ok {
				tempSum += temp
				report.Thermostats++
			}
		}

		decision, ok := Decide(snap, analyticsCfg, p.uniform())
		if !ok {
			continue
		}

		dev.ExecuteCommand(decision.Command)
		report.Decisions = append(report.Decisions, decision)

		switch decision.Reason {
		case ReasonBatteryLow:
			report.Alerts++
			p.logger.Warn("low battery alert",
				"device_id", decision.DeviceID,
				"command", decision.Command)
		case ReasonTooWarm, ReasonTooCold:
			report.Alerts++
			p.logger.Warn("temperature correction alert",
				"device_id", decision.DeviceID,
				"command", decision.Command,
				"reason", decision.Reason)
		default:
			p.logger.Debug("command issued",
				"device_id", decision.DeviceID,
				"command", decision.Command,
				"reason", decision.Reason)
		}
	}

	if report.Thermostats > 0 {
		report.MeanTemp = tempSum / float64(report.Thermostats)
	}

	if p.metrics != nil {
		p.metrics.WriteAnalyticsCycle(report.MeanTemp, report.Thermostats, len(report.Decisions), report.Alerts)
	}

	return report
}

// uniform draws one sample from [0,1) under the rng lock.
func (p *Pipeline) uniform() float64 {
	p.rngMu.Lock()
	defer p.rngMu.Unlock()
	return p.rng.Float64()
}
