package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ecohub-labs/ecohub-core/internal/device"
)

// Maximum payload size for MQTT messages (1MB).
// This prevents resource exhaustion and aligns with typical broker limits.
const maxPayloadSize = 1 << 20 // 1MB

// Publish sends a message to the specified MQTT topic.
//
// Parameters:
//   - topic: The topic to publish to (e.g., "ecohub/telemetry/camera/cam-01")
//   - payload: The message payload (typically JSON, max 1MB)
//   - qos: Quality of Service level (0, 1, or 2)
//   - retained: Whether the broker should retain the message for new subscribers
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// PublishSnapshot publishes one device snapshot on its telemetry topic
// using the configured default QoS.
//
// The message body is the same JSON object the telemetry log records,
// retained so late subscribers see each device's latest state.
//
// Parameters:
//   - ctx: Context for cancellation (checked before publishing)
//   - snap: Snapshot to publish
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
func (c *Client) PublishSnapshot(ctx context.Context, snap device.Snapshot) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("mqtt publish snapshot: %w", ctx.Err())
	default:
	}

	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: marshalling snapshot: %w", ErrPublishFailed, err)
	}

	topic := Topics{}.Telemetry(strings.ToLower(string(snap.Type)), snap.DeviceID)
	return c.Publish(topic, body, byte(c.cfg.QoS), true)
}
