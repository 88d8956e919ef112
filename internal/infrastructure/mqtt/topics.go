package mqtt

import "fmt"

// Topic namespace layout:
//
//	ecohub/system/status                     - hub online/offline status (retained)
//	ecohub/telemetry/{type}/{device_id}      - one message per persisted snapshot
//
// Device type segments are the lowercase variant tags: bulb, thermostat,
// camera.
const topicPrefix = "ecohub"

// Topics builds EcoHub topic strings. The zero value is ready to use.
type Topics struct{}

// SystemStatus returns the hub status topic.
func (Topics) SystemStatus() string {
	return topicPrefix + "/system/status"
}

// Telemetry returns the snapshot fan-out topic for one device.
func (Topics) Telemetry(deviceType, deviceID string) string {
	return fmt.Sprintf("%s/telemetry/%s/%s", topicPrefix, deviceType, deviceID)
}
