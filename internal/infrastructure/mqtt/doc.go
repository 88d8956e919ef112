// Package mqtt provides EcoHub's optional telemetry fan-out to an MQTT
// broker.
//
// When enabled in config.yaml, the hub wires the client in as a
// secondary telemetry sink: every snapshot the persistence worker
// appends to the NDJSON log is also published, retained, on
//
//	ecohub/telemetry/{type}/{device_id}
//
// so dashboards and other subscribers can follow the fleet live. The
// hub's own availability is announced on ecohub/system/status with a
// Last Will message distinguishing crashes from graceful shutdowns.
//
// The client is publish-only. Connection management (auto-reconnect,
// backoff, TLS, LWT) is delegated to paho.mqtt.golang; publish failures
// while the broker is away are reported to the caller, which logs and
// drops them. Broker availability never affects the primary log.
package mqtt
