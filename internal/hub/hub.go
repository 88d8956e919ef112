package hub

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ecohub-labs/ecohub-core/internal/analytics"
	"github.com/ecohub-labs/ecohub-core/internal/device"
	"github.com/ecohub-labs/ecohub-core/internal/infrastructure/config"
	"github.com/ecohub-labs/ecohub-core/internal/simulation"
	"github.com/ecohub-labs/ecohub-core/internal/telemetry"
)

// historyPruneInterval is how often the retention window is enforced.
const historyPruneInterval = time.Hour

// Logger defines the logging interface used by the hub.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SnapshotPublisher fans persisted snapshots out to a broker.
// Satisfied by the mqtt client.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, snap device.Snapshot) error
}

// SnapshotMetrics records persisted snapshots in a time-series store.
// Satisfied by the influxdb client.
type SnapshotMetrics interface {
	WriteSnapshot(snap device.Snapshot)
}

// Options carries the hub's dependencies. Config and Logger are
// required; the sinks are optional and nil disables each one.
type Options struct {
	Config *config.Config
	Logger Logger

	// History mirrors persisted snapshots into SQLite and is pruned on
	// the configured retention window.
	History *telemetry.HistoryStore

	// Publisher fans persisted snapshots out over MQTT.
	Publisher SnapshotPublisher

	// Metrics records snapshots and analytics cycles in InfluxDB.
	Metrics SnapshotMetrics

	// AnalyticsMetrics records per-cycle aggregates. Usually the same
	// client as Metrics.
	AnalyticsMetrics analytics.MetricsSink
}

// Hub wires the fleet together and runs it.
//
// It owns the roster, the telemetry queue and writer, the per-device
// simulation tasks and the analytics pipeline, and coordinates their
// shutdown so that every snapshot accepted before the stop signal
// reaches the log.
type Hub struct {
	cfg    *config.Config
	logger Logger

	roster   *device.Roster
	queue    *telemetry.Queue
	writer   *telemetry.Writer
	sim      *simulation.Manager
	pipeline *analytics.Pipeline
	history  *telemetry.HistoryStore
}

// New builds a hub with the default twelve-device roster.
//
// Parameters:
//   - opts: Dependencies; Config and Logger are required
//
// Returns:
//   - *Hub: Hub ready for Run
//   - error: If options are incomplete or the telemetry log cannot be opened
func New(opts Options) (*Hub, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("hub: config is required")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("hub: logger is required")
	}

	roster, err := device.NewRoster(defaultFleet()...)
	if err != nil {
		return nil, fmt.Errorf("hub: building roster: %w", err)
	}
	roster.SetLogger(opts.Logger)

	queue := telemetry.NewQueue()

	var sinks []telemetry.Sink
	if opts.History != nil {
		sinks = append(sinks, opts.History)
	}
	if opts.Publisher != nil {
		publisher := opts.Publisher
		sinks = append(sinks, telemetry.SinkFunc(func(ctx context.Context, snap device.Snapshot) error {
			return publisher.PublishSnapshot(ctx, snap)
		}))
	}
	if opts.Metrics != nil {
		metrics := opts.Metrics
		sinks = append(sinks, telemetry.SinkFunc(func(_ context.Context, snap device.Snapshot) error {
			metrics.WriteSnapshot(snap)
			return nil
		}))
	}

	writer, err := telemetry.NewWriter(opts.Config.Telemetry.LogPath, queue, sinks...)
	if err != nil {
		return nil, fmt.Errorf("hub: %w", err)
	}
	writer.SetLogger(opts.Logger)

	sim := simulation.NewManager(roster, queue, opts.Config)
	sim.SetLogger(opts.Logger)

	pipeline := analytics.NewPipeline(roster, opts.Config, opts.AnalyticsMetrics)
	pipeline.SetLogger(opts.Logger)

	return &Hub{
		cfg:      opts.Config,
		logger:   opts.Logger,
		roster:   roster,
		queue:    queue,
		writer:   writer,
		sim:      sim,
		pipeline: pipeline,
		history:  opts.History,
	}, nil
}

// Roster returns the device fleet.
func (h *Hub) Roster() *device.Roster {
	return h.roster
}

// Run starts the fleet and blocks until the context is cancelled and
// shutdown has completed.
//
// Shutdown ordering:
//  1. Context cancellation stops the simulation tasks and the
//     analytics pipeline.
//  2. Once both are down, the queue is closed; no producer remains, so
//     its contents are final.
//  3. The writer drains the queue to the log, then exits.
//
// A clean shutdown returns nil.
func (h *Hub) Run(ctx context.Context) error {
	stats := h.roster.GetStats()
	h.logger.Info("hub starting",
		"devices", stats.TotalDevices,
		"bulbs", stats.ByType[device.TypeBulb],
		"thermostats", stats.ByType[device.TypeThermostat],
		"cameras", stats.ByType[device.TypeCamera])

	// The writer outlives the cancelled context so it can drain; its
	// sink calls get their own context, released once Run returns.
	sinkCtx, sinkCancel := context.WithCancel(context.Background())
	defer sinkCancel()

	writerDone := make(chan error, 1)
	go func() {
		writerDone <- h.writer.Run(sinkCtx)
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return h.sim.Run(gctx) })
	g.Go(func() error { return h.pipeline.Run(gctx) })
	if h.history != nil && h.cfg.GetHistoryRetention() > 0 {
		g.Go(func() error { return h.pruneLoop(gctx) })
	}

	runErr := g.Wait()

	h.queue.Close()
	writerErr := <-writerDone

	h.logger.Info("hub stopped",
		"records_written", h.writer.Written(),
		"records_failed", h.writer.Failed(),
		"analytics_cycles", h.pipeline.Cycles(),
		"task_restarts", h.sim.Restarts())

	if runErr != nil {
		return fmt.Errorf("hub: %w", runErr)
	}
	if writerErr != nil {
		return fmt.Errorf("hub: %w", writerErr)
	}
	return nil
}

// pruneLoop enforces the history retention window, once at startup and
// then periodically.
func (h *Hub) pruneLoop(ctx context.Context) error {
	retention := h.cfg.GetHistoryRetention()

	prune := func() {
		deleted, err := h.history.Prune(ctx, retention)
		if err != nil {
			h.logger.Warn("history prune failed", "error", err)
			return
		}
		if deleted > 0 {
			h.logger.Info("history pruned", "rows_deleted", deleted)
		}
	}
	prune()

	ticker := time.NewTicker(historyPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			prune()
		}
	}
}

// defaultFleet returns the standard twelve-device roster: four bulbs,
// four thermostats and four cameras spread over the house.
func defaultFleet() []device.Device {
	return []device.Device{
		device.NewBulb("bulb-living", "Living Room Light", "Living Room", 80),
		device.NewBulb("bulb-kitchen", "Kitchen Light", "Kitchen", 100),
		device.NewBulb("bulb-bedroom", "Bedroom Light", "Bedroom", 40),
		device.NewBulb("bulb-hallway", "Hallway Light", "Hallway", 60),
		device.NewThermostat("therm-living", "Living Room Thermostat", "Living Room", 21.5, 22, 42),
		device.NewThermostat("therm-bedroom", "Bedroom Thermostat", "Bedroom", 19.0, 20, 45),
		device.NewThermostat("therm-office", "Office Thermostat", "Office", 23.5, 21, 38),
		device.NewThermostat("therm-basement", "Basement Thermostat", "Basement", 17.0, 18, 55),
		device.NewCamera("cam-front", "Front Door Camera", "Front Door", 95),
		device.NewCamera("cam-back", "Back Door Camera", "Back Garden", 88),
		device.NewCamera("cam-garage", "Garage Camera", "Garage", 72),
		device.NewCamera("cam-drive", "Driveway Camera", "Driveway", 64),
	}
}
