package influxdb

import (
	"context"
	"errors"
	"testing"

	"github.com/ecohub-labs/ecohub-core/internal/device"
	"github.com/ecohub-labs/ecohub-core/internal/infrastructure/config"
)

func TestConnect_Disabled(t *testing.T) {
	_, err := Connect(config.InfluxDBConfig{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, expected ErrDisabled", err)
	}
}

func TestHealthCheck_Disconnected(t *testing.T) {
	c := &Client{}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, expected ErrNotConnected", err)
	}
}

func TestWrites_DisconnectedNoOp(t *testing.T) {
	// A disconnected client must swallow writes without touching the
	// (nil) write API.
	c := &Client{}

	c.WriteSnapshot(device.Snapshot{
		DeviceID: "cam-01",
		Type:     device.TypeCamera,
		Payload:  device.Payload{"battery_level": 80},
	})
	c.WriteAnalyticsCycle(21.5, 4, 2, 1)
	c.Flush()
}

func TestClose_NilClient(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
