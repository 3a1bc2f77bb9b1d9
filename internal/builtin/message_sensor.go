package builtin

import (
	"github.com/nerrad567/webdevice-core/internal/device"
	"github.com/nerrad567/webdevice-core/internal/event"
	"github.com/nerrad567/webdevice-core/internal/render"
)

// MaxMessageLen bounds a sensor message. Longer messages are cut.
const MaxMessageLen = 100

// Defaults for a MessageSensor built with empty arguments.
const (
	DefaultSensorTarget  = "sensor"
	DefaultSensorName    = "Simple Sensor"
	DefaultSensorMessage = "Hello from Simple Sensor"
)

// KindMessageSensor is the kind of MessageSensor.
var KindMessageSensor = device.NewKind("MessageSensor", device.KindSensor)

// MessageNode is implemented by *MessageSensor and every type embedding it.
type MessageNode interface {
	device.SensorNode
	Message() string
	SetMessage(m string)
}

// MessageSensor is a sensor whose reading is a line of text.
type MessageSensor struct {
	device.Sensor
	msg string
}

// NewMessageSensor returns a sensor showing DefaultSensorMessage.
func NewMessageSensor(target, displayName string) *MessageSensor {
	s := &MessageSensor{}
	s.Init(s, KindMessageSensor, target, displayName)
	return s
}

// Init prepares a MessageSensor embedded in self.
func (s *MessageSensor) Init(self device.DeviceNode, kind *device.Kind, target, displayName string) {
	if target == "" {
		target = DefaultSensorTarget
	}
	if displayName == "" {
		displayName = DefaultSensorName
	}
	s.Sensor.Init(self, kind, target, displayName)
	s.msg = DefaultSensorMessage
}

// Message returns the current message.
func (s *MessageSensor) Message() string { return s.msg }

// SetMessage replaces the message and reports the change. An empty message
// is ignored.
func (s *MessageSensor) SetMessage(m string) {
	if m == "" {
		return
	}
	m = render.Truncate(m, MaxMessageLen)
	if m == s.msg {
		return
	}
	s.msg = m
	s.Notify(event.TypeStateChanged, m)
}

// Content writes the message paragraph.
func (s *MessageSensor) Content(b *render.Buffer) {
	render.Paragraph(b, "Sensor Message is: "+s.msg)
}
