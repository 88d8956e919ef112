package mqtt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ecohub-labs/ecohub-core/internal/device"
	"github.com/ecohub-labs/ecohub-core/internal/infrastructure/config"
)

// testConfig returns a valid MQTT configuration for testing.
// No broker is required: these tests only exercise option building,
// topic construction and validation paths.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "ecohub-test",
			TLS:      false,
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

func TestTopicBuilders(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{name: "system status", got: Topics{}.SystemStatus(), expected: "ecohub/system/status"},
		{name: "camera telemetry", got: Topics{}.Telemetry("camera", "cam-01"), expected: "ecohub/telemetry/camera/cam-01"},
		{name: "bulb telemetry", got: Topics{}.Telemetry("bulb", "bulb-living"), expected: "ecohub/telemetry/bulb/bulb-living"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("topic = %s, expected %s", tt.got, tt.expected)
			}
		})
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 {
		t.Fatalf("expected 1 broker URL, got %d", len(opts.Servers))
	}
	if got := opts.Servers[0].String(); got != "tcp://127.0.0.1:1883" {
		t.Errorf("broker URL = %s, expected tcp://127.0.0.1:1883", got)
	}
	if opts.ClientID != "ecohub-test" {
		t.Errorf("client id = %s, expected ecohub-test", opts.ClientID)
	}
	if !opts.AutoReconnect {
		t.Error("expected auto-reconnect enabled")
	}
}

func TestBuildClientOptions_TLS(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.TLS = true

	opts := buildClientOptions(cfg)
	if got := opts.Servers[0].Scheme; got != "ssl" {
		t.Errorf("scheme = %s, expected ssl", got)
	}
	if opts.TLSConfig == nil {
		t.Error("expected TLS config set")
	}
}

func TestStatusPayloads(t *testing.T) {
	online := buildOnlinePayload("ecohub-test")
	if !strings.Contains(online, `"status":"online"`) || !strings.Contains(online, `"client_id":"ecohub-test"`) {
		t.Errorf("online payload unexpected: %s", online)
	}

	offline := buildOfflinePayload("ecohub-test")
	if !strings.Contains(offline, `"reason":"graceful_shutdown"`) {
		t.Errorf("offline payload unexpected: %s", offline)
	}
}

func TestPublish_Validation(t *testing.T) {
	c := &Client{cfg: testConfig()}

	tests := []struct {
		name     string
		topic    string
		payload  []byte
		qos      byte
		expected error
	}{
		{name: "empty topic", topic: "", payload: []byte("{}"), qos: 1, expected: ErrInvalidTopic},
		{name: "invalid qos", topic: "ecohub/system/status", payload: []byte("{}"), qos: 3, expected: ErrInvalidQoS},
		{name: "disconnected", topic: "ecohub/system/status", payload: []byte("{}"), qos: 1, expected: ErrNotConnected},
		{name: "oversized payload", topic: "ecohub/system/status", payload: make([]byte, maxPayloadSize+1), qos: 1, expected: ErrPublishFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.expected) {
				t.Errorf("Publish() error = %v, expected %v", err, tt.expected)
			}
		})
	}
}

func TestPublishSnapshot_Disconnected(t *testing.T) {
	c := &Client{cfg: testConfig()}

	snap := device.Snapshot{DeviceID: "cam-01", Type: device.TypeCamera, Payload: device.Payload{}}
	if err := c.PublishSnapshot(context.Background(), snap); !errors.Is(err, ErrNotConnected) {
		t.Errorf("PublishSnapshot() error = %v, expected ErrNotConnected", err)
	}
}

func TestPublishSnapshot_CancelledContext(t *testing.T) {
	c := &Client{cfg: testConfig()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snap := device.Snapshot{DeviceID: "cam-01", Type: device.TypeCamera, Payload: device.Payload{}}
	if err := c.PublishSnapshot(ctx, snap); !errors.Is(err, context.Canceled) {
		t.Errorf("PublishSnapshot() error = %v, expected context.Canceled", err)
	}
}

func TestCloseNil(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close() on unconnected client error = %v", err)
	}
}

func TestHealthCheck_Disconnected(t *testing.T) {
	c := &Client{cfg: testConfig()}

	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, expected ErrNotConnected", err)
	}
}

func TestHealthCheck_Cancelled(t *testing.T) {
	c := &Client{cfg: testConfig()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.HealthCheck(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck() error = %v, expected context.Canceled", err)
	}
}
