package event

import (
	"context"
	"fmt"

	"github.com/nerrad567/webdevice-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/webdevice-core/internal/infrastructure/mqtt"
)

// Publisher is the part of *mqtt.Client used by MQTTSink.
type Publisher interface {
	PublishJSON(topic string, v any) error
}

// MQTTSink publishes each event retained on <prefix>/device/<id>/<type>.
type MQTTSink struct {
	pub    Publisher
	topics mqtt.Topics
}

// NewMQTTSink returns a sink publishing through pub under topics.
func NewMQTTSink(pub Publisher, topics mqtt.Topics) *MQTTSink {
	return &MQTTSink{pub: pub, topics: topics}
}

// Name implements Sink.
func (s *MQTTSink) Name() string { return "mqtt" }

// Publish implements Sink.
func (s *MQTTSink) Publish(_ context.Context, e Event) error {
	deviceID := e.DeviceID
	if deviceID == "" {
		deviceID = "unassigned"
	}
	topic := s.topics.DeviceEvent(deviceID, string(e.Type))
	if err := s.pub.PublishJSON(topic, e); err != nil {
		return fmt.Errorf("publishing %s: %w", topic, err)
	}
	return nil
}

// PointWriter is the part of *influxdb.Client used by InfluxSink.
type PointWriter interface {
	WriteDeviceEvent(e influxdb.DeviceEvent)
}

// InfluxSink writes each event as a device_events point.
type InfluxSink struct {
	w PointWriter
}

// NewInfluxSink returns a sink writing through w.
func NewInfluxSink(w PointWriter) *InfluxSink {
	return &InfluxSink{w: w}
}

// Name implements Sink.
func (s *InfluxSink) Name() string { return "influxdb" }

// Publish implements Sink. Writes are asynchronous, so it never fails.
func (s *InfluxSink) Publish(_ context.Context, e Event) error {
	s.w.WriteDeviceEvent(influxdb.DeviceEvent{
		DeviceID:  e.DeviceID,
		Event:     string(e.Type),
		Path:      e.Path,
		Name:      e.Name,
		Value:     e.Value,
		Timestamp: e.Timestamp,
	})
	return nil
}
