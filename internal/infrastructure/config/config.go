package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for EcoHub Core.
// All configuration is loaded from YAML; the only environment variable the
// application honours is ECOHUB_CONFIG (the path to this file).
type Config struct {
	Site       SiteConfig       `yaml:"site"`
	Logging    LoggingConfig    `yaml:"logging"`
	Database   DatabaseConfig   `yaml:"database"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Simulation SimulationConfig `yaml:"simulation"`
	Analytics  AnalyticsConfig  `yaml:"analytics"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
	InfluxDB   InfluxDBConfig   `yaml:"influxdb"`
}

// SiteConfig contains site-specific information.
type SiteConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Timezone string `yaml:"timezone"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// DatabaseConfig contains SQLite settings for the telemetry history store.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// TelemetryConfig contains settings for the append-only telemetry log and
// the local history store.
type TelemetryConfig struct {
	// LogPath is the filesystem path of the newline-delimited JSON log.
	LogPath string `yaml:"log_path"`

	// History controls mirroring of snapshots into SQLite.
	History HistoryConfig `yaml:"history"`
}

// HistoryConfig contains telemetry history store settings.
type HistoryConfig struct {
	// Enabled mirrors every persisted snapshot into the telemetry_history
	// table when true.
	Enabled bool `yaml:"enabled"`

	// RetentionDays is how long history rows are kept. 0 disables pruning.
	RetentionDays int `yaml:"retention_days"`
}

// SimulationConfig contains device simulation timing and behaviour settings.
type SimulationConfig struct {
	// ConnectLatencyMinMS/MaxMS bound the simulated connection latency each
	// device waits before entering its tick loop.
	ConnectLatencyMinMS int `yaml:"connect_latency_min_ms"`
	ConnectLatencyMaxMS int `yaml:"connect_latency_max_ms"`

	// TickMinMS/TickMaxMS bound the randomised inter-tick wait.
	TickMinMS int `yaml:"tick_min_ms"`
	TickMaxMS int `yaml:"tick_max_ms"`

	// Camera tuning.
	Camera CameraSimConfig `yaml:"camera"`

	// Thermostat tuning.
	Thermostat ThermostatSimConfig `yaml:"thermostat"`

	// Restart policy for device tasks that stop with an unexpected error.
	RestartOnFailure   bool `yaml:"restart_on_failure"`
	RestartDelayMS     int  `yaml:"restart_delay_ms"`
	MaxRestartAttempts int  `yaml:"max_restart_attempts"`
}

// CameraSimConfig contains camera simulation parameters.
type CameraSimConfig struct {
	// MotionProbability is the per-tick chance of a motion event (0..1).
	MotionProbability float64 `yaml:"motion_probability"`

	// BaselineDrainMax is the maximum baseline battery decrement per tick.
	BaselineDrainMax int `yaml:"baseline_drain_max"`

	// MotionDrainMax is the maximum extra battery decrement on motion.
	MotionDrainMax int `yaml:"motion_drain_max"`

	// LowBatteryThreshold is the level below which the task slows itself.
	LowBatteryThreshold int `yaml:"low_battery_threshold"`

	// LowBatteryPauseMS is the extra wait inserted when battery is low.
	LowBatteryPauseMS int `yaml:"low_battery_pause_ms"`
}

// ThermostatSimConfig contains thermostat simulation parameters.
type ThermostatSimConfig struct {
	// DriftRange bounds the uniform temperature perturbation per tick.
	// Each tick adds a value drawn from [-DriftRange, +DriftRange].
	DriftRange float64 `yaml:"drift_range"`
}

// AnalyticsConfig contains analytics pipeline settings.
type AnalyticsConfig struct {
	// IntervalMS is the fixed analytics cycle period.
	IntervalMS int `yaml:"interval_ms"`

	// BulbToggleProbability is the per-cycle chance a bulb is toggled (0..1).
	BulbToggleProbability float64 `yaml:"bulb_toggle_probability"`

	// LowBatteryThreshold is the camera battery level below which a
	// LOW_BATTERY_WARNING is raised.
	LowBatteryThreshold int `yaml:"low_battery_threshold"`
}

// MQTTConfig contains optional MQTT telemetry fan-out settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings (seconds).
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDBConfig contains optional InfluxDB metrics sink settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// Load reads configuration from a YAML file.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with sensible defaults. The defaults describe a
// fully in-process simulator: both external sinks are disabled.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			ID:       "ecohub-001",
			Name:     "EcoHub",
			Timezone: "UTC",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Database: DatabaseConfig{
			Path:        "./data/ecohub.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Telemetry: TelemetryConfig{
			LogPath: "./data/history.log",
			History: HistoryConfig{
				Enabled:       true,
				RetentionDays: 7,
			},
		},
		Simulation: SimulationConfig{
			ConnectLatencyMinMS: 100,
			ConnectLatencyMaxMS: 500,
			TickMinMS:           1000,
			TickMaxMS:           5000,
			Camera: CameraSimConfig{
				MotionProbability:   0.2,
				BaselineDrainMax:    2,
				MotionDrainMax:      3,
				LowBatteryThreshold: 10,
				LowBatteryPauseMS:   5000,
			},
			Thermostat: ThermostatSimConfig{
				DriftRange: 2.0,
			},
			RestartOnFailure:   true,
			RestartDelayMS:     1000,
			MaxRestartAttempts: 5,
		},
		Analytics: AnalyticsConfig{
			IntervalMS:            10000,
			BulbToggleProbability: 0.05,
			LowBatteryThreshold:   10,
		},
		MQTT: MQTTConfig{
			Enabled: false,
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "ecohub-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		InfluxDB: InfluxDBConfig{
			Enabled:       false,
			BatchSize:     100,
			FlushInterval: 1,
		},
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Site.ID == "" {
		errs = append(errs, "site.id is required")
	}
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}
	if c.Telemetry.LogPath == "" {
		errs = append(errs, "telemetry.log_path is required")
	}

	if c.Simulation.TickMinMS <= 0 || c.Simulation.TickMaxMS < c.Simulation.TickMinMS {
		errs = append(errs, "simulation tick range must satisfy 0 < tick_min_ms <= tick_max_ms")
	}
	if c.Simulation.ConnectLatencyMinMS < 0 || c.Simulation.ConnectLatencyMaxMS < c.Simulation.ConnectLatencyMinMS {
		errs = append(errs, "simulation connect latency range must satisfy 0 <= min <= max")
	}
	if p := c.Simulation.Camera.MotionProbability; p < 0 || p > 1 {
		errs = append(errs, "simulation.camera.motion_probability must be between 0 and 1")
	}
	if c.Simulation.Thermostat.DriftRange < 0 {
		errs = append(errs, "simulation.thermostat.drift_range must not be negative")
	}

	if c.Analytics.IntervalMS <= 0 {
		errs = append(errs, "analytics.interval_ms must be positive")
	}
	if p := c.Analytics.BulbToggleProbability; p < 0 || p > 1 {
		errs = append(errs, "analytics.bulb_toggle_probability must be between 0 and 1")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetConnectLatencyRange returns the connection latency bounds as Durations.
func (c *Config) GetConnectLatencyRange() (minWait, maxWait time.Duration) {
	return time.Duration(c.Simulation.ConnectLatencyMinMS) * time.Millisecond,
		time.Duration(c.Simulation.ConnectLatencyMaxMS) * time.Millisecond
}

// GetTickRange returns the inter-tick wait bounds as Durations.
func (c *Config) GetTickRange() (minWait, maxWait time.Duration) {
	return time.Duration(c.Simulation.TickMinMS) * time.Millisecond,
		time.Duration(c.Simulation.TickMaxMS) * time.Millisecond
}

// GetLowBatteryPause returns the camera low-battery slowdown as a Duration.
func (c *Config) GetLowBatteryPause() time.Duration {
	return time.Duration(c.Simulation.Camera.LowBatteryPauseMS) * time.Millisecond
}

// GetAnalyticsInterval returns the analytics cycle period as a Duration.
func (c *Config) GetAnalyticsInterval() time.Duration {
	return time.Duration(c.Analytics.IntervalMS) * time.Millisecond
}

// GetRestartDelay returns the device task restart delay as a Duration.
func (c *Config) GetRestartDelay() time.Duration {
	return time.Duration(c.Simulation.RestartDelayMS) * time.Millisecond
}

// GetHistoryRetention returns the history retention window as a Duration.
// Returns 0 when pruning is disabled.
func (c *Config) GetHistoryRetention() time.Duration {
	return time.Duration(c.Telemetry.History.RetentionDays) * 24 * time.Hour
}
