// Package influxdb provides EcoHub's optional time-series metrics sink.
//
// When enabled in config.yaml, the hub wires the client in twice:
//
//   - as a secondary telemetry sink, recording every persisted snapshot
//     in the device_telemetry measurement, tagged by device id and type;
//   - from the analytics pipeline, recording per-cycle aggregates
//     (mean thermostat temperature, command and alert counts) in the
//     analytics_cycle measurement.
//
// Writes are non-blocking and batched by the influxdb-client-go write
// API; async write failures surface through the SetOnError callback and
// are logged, never propagated. The NDJSON telemetry log remains the
// primary record, so a missing or unhealthy InfluxDB never affects the
// simulation.
package influxdb
