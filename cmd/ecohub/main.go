// EcoHub Core - Smart Home Fleet Simulator
//
// This is the main entry point for the EcoHub simulator. It runs a
// virtual fleet of smart home devices (bulbs, thermostats, cameras),
// persists their telemetry to an append-only NDJSON log and closes the
// control loop with a periodic analytics pipeline. Optional sinks
// mirror telemetry into SQLite, MQTT and InfluxDB.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	_ "github.com/ecohub-labs/ecohub-core/migrations"

	"github.com/ecohub-labs/ecohub-core/internal/hub"
	"github.com/ecohub-labs/ecohub-core/internal/infrastructure/config"
	"github.com/ecohub-labs/ecohub-core/internal/infrastructure/database"
	"github.com/ecohub-labs/ecohub-core/internal/infrastructure/influxdb"
	"github.com/ecohub-labs/ecohub-core/internal/infrastructure/logging"
	"github.com/ecohub-labs/ecohub-core/internal/infrastructure/mqtt"
	"github.com/ecohub-labs/ecohub-core/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()

	runID := uuid.New().String()
	log.Info("starting EcoHub Core",
		"version", version,
		"commit", commit,
		"build_date", date,
		"run_id", runID,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		// A missing config file falls back to defaults; anything else is fatal.
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading config: %w", err)
		}
		log.Warn("config file not found, using defaults", "path", configPath)
		cfg = config.Default()
	} else {
		log.Info("configuration loaded", "path", configPath)
	}

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	opts := hub.Options{
		Config: cfg,
		Logger: log,
	}

	// Open database for the telemetry history store (optional)
	if cfg.Telemetry.History.Enabled {
		db, dbErr := database.Open(database.Config{
			Path:        cfg.Database.Path,
			WALMode:     cfg.Database.WALMode,
			BusyTimeout: cfg.Database.BusyTimeout,
		})
		if dbErr != nil {
			return fmt.Errorf("opening database: %w", dbErr)
		}
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()
		log.Info("database connected", "path", cfg.Database.Path)

		if migrateErr := db.Migrate(ctx); migrateErr != nil {
			return fmt.Errorf("running migrations: %w", migrateErr)
		}
		log.Info("database migrations complete")

		if healthErr := db.HealthCheck(ctx); healthErr != nil {
			return fmt.Errorf("database health check: %w", healthErr)
		}

		opts.History = telemetry.NewHistoryStore(db.DB, runID)
	} else {
		log.Info("telemetry history store disabled")
	}

	// Connect to MQTT broker (optional)
	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := mqtt.Connect(cfg.MQTT)
		if mqttErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", mqttErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})

		if healthErr := mqttClient.HealthCheck(ctx); healthErr != nil {
			return fmt.Errorf("mqtt health check: %w", healthErr)
		}

		opts.Publisher = mqttClient
	} else {
		log.Info("MQTT fan-out disabled")
	}

	// Connect to InfluxDB (optional)
	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})

		if healthErr := influxClient.HealthCheck(ctx); healthErr != nil {
			return fmt.Errorf("influxdb health check: %w", healthErr)
		}

		opts.Metrics = influxClient
		opts.AnalyticsMetrics = influxClient
	} else {
		log.Info("InfluxDB disabled")
	}

	h, err := hub.New(opts)
	if err != nil {
		return fmt.Errorf("building hub: %w", err)
	}

	log.Info("initialisation complete, running fleet until shutdown signal")

	// Blocks until SIGINT/SIGTERM, then drains telemetry and returns.
	if err := h.Run(ctx); err != nil {
		return fmt.Errorf("running hub: %w", err)
	}

	log.Info("EcoHub Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses ECOHUB_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("ECOHUB_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
