package event

import (
	"context"
	"errors"
	"testing"

	"github.com/nerrad567/webdevice-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/webdevice-core/internal/infrastructure/mqtt"
)

type fakePublisher struct {
	topic string
	v     any
	err   error
}

func (p *fakePublisher) PublishJSON(topic string, v any) error {
	p.topic = topic
	p.v = v
	return p.err
}

type fakeWriter struct {
	got []influxdb.DeviceEvent
}

func (w *fakeWriter) WriteDeviceEvent(e influxdb.DeviceEvent) {
	w.got = append(w.got, e)
}

func TestMQTTSink(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewMQTTSink(pub, mqtt.NewTopics("home"))

	e := New(TypeStateChanged, "dev-1", "/root/lamp", "Lamp", "ON")
	if err := sink.Publish(context.Background(), e); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if pub.topic != "home/device/dev-1/state_changed" {
		t.Errorf("topic = %q", pub.topic)
	}
	if got, ok := pub.v.(Event); !ok || got.Value != "ON" {
		t.Errorf("payload = %#v", pub.v)
	}
}

func TestMQTTSinkUnassignedDevice(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewMQTTSink(pub, mqtt.NewTopics("home"))

	if err := sink.Publish(context.Background(), New(TypeDeviceAdded, "", "/x", "X", "")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if pub.topic != "home/device/unassigned/device_added" {
		t.Errorf("topic = %q", pub.topic)
	}
}

func TestMQTTSinkError(t *testing.T) {
	pub := &fakePublisher{err: mqtt.ErrNotConnected}
	sink := NewMQTTSink(pub, mqtt.NewTopics("home"))

	err := sink.Publish(context.Background(), New(TypeStateChanged, "d", "/x", "X", "ON"))
	if !errors.Is(err, mqtt.ErrNotConnected) {
		t.Errorf("Publish() error = %v, want ErrNotConnected", err)
	}
}

func TestInfluxSink(t *testing.T) {
	w := &fakeWriter{}
	sink := NewInfluxSink(w)

	e := New(TypeDisplayNameChanged, "dev-1", "/root/lamp", "Hall", "Hall")
	if err := sink.Publish(context.Background(), e); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(w.got) != 1 {
		t.Fatalf("points = %d, want 1", len(w.got))
	}
	got := w.got[0]
	if got.Event != "display_name_changed" || got.DeviceID != "dev-1" || got.Path != "/root/lamp" || !got.Timestamp.Equal(e.Timestamp) {
		t.Errorf("point = %+v", got)
	}
}
