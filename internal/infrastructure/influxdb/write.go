package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// DeviceEventMeasurement is the measurement device events are written to.
const DeviceEventMeasurement = "device_events"

// DeviceEvent is one row of the device_events measurement.
type DeviceEvent struct {
	DeviceID  string
	Event     string
	Path      string
	Name      string
	Value     string
	Timestamp time.Time
}

// WriteDeviceEvent records a device event. device_id, event and path are
// tags; name and value are fields. A zero Timestamp means now.
func (c *Client) WriteDeviceEvent(e DeviceEvent) {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	c.WritePointWithTime(DeviceEventMeasurement,
		map[string]string{
			"device_id": e.DeviceID,
			"event":     e.Event,
			"path":      e.Path,
		},
		map[string]any{
			"name":  e.Name,
			"value": e.Value,
		},
		ts,
	)
}

// WritePoint writes a point stamped now.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]any) {
	c.WritePointWithTime(measurement, tags, fields, time.Now())
}

// WritePointWithTime writes a point with an explicit timestamp.
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]any, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, timestamp))
}
