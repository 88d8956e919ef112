package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/ecohub-labs/ecohub-core/internal/device"
)

// WriteSnapshot records one device snapshot as a point in the
// device_telemetry measurement.
//
// Numeric and boolean payload fields become InfluxDB fields; the device
// identity becomes tags. The point is timestamped with the snapshot's
// own capture time, not the write time, so late flushes stay accurate.
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - snap: Snapshot to record
func (c *Client) WriteSnapshot(snap device.Snapshot) {
	if !c.IsConnected() {
		return
	}

	fields := make(map[string]interface{}, len(snap.Payload))
	for k, v := range snap.Payload {
		switch val := v.(type) {
		case int:
			fields[k] = val
		case int64:
			fields[k] = val
		case float64:
			fields[k] = val
		case bool:
			fields[k] = val
		}
	}
	if len(fields) == 0 {
		return
	}

	sec, frac := int64(snap.Timestamp), snap.Timestamp-float64(int64(snap.Timestamp))
	point := write.NewPoint(
		"device_telemetry",
		map[string]string{
			"device_id":   snap.DeviceID,
			"device_type": string(snap.Type),
		},
		fields,
		time.Unix(sec, int64(frac*float64(time.Second))),
	)

	c.writeAPI.WritePoint(point)
}

// WriteAnalyticsCycle records one analytics cycle's aggregate metrics.
//
// Parameters:
//   - meanTemp: Mean thermostat temperature across the fleet
//   - thermostats: Number of thermostats contributing to the mean
//   - commands: Number of commands issued this cycle
//   - alerts: Number of alerts raised this cycle
func (c *Client) WriteAnalyticsCycle(meanTemp float64, thermostats, commands, alerts int) {
	if !c.IsConnected() {
		return
	}

	fields := map[string]interface{}{
		"thermostat_count": thermostats,
		"command_count":    commands,
		"alert_count":      alerts,
	}
	if thermostats > 0 {
		fields["mean_temperature"] = meanTemp
	}

	point := write.NewPoint(
		"analytics_cycle",
		map[string]string{},
		fields,
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
