package builtin

import (
	"net/http"
	"strings"

	"github.com/nerrad567/webdevice-core/internal/device"
	"github.com/nerrad567/webdevice-core/internal/render"
	"github.com/nerrad567/webdevice-core/internal/web"
)

// ArgMessage sets the message of a ConfigurableSensor. Matched ignoring case.
const ArgMessage = "msg"

// Defaults for a ConfigurableSensor built with empty arguments.
const (
	DefaultConfigurableTarget  = "sensorwc"
	DefaultConfigurableName    = "Sensor With Config"
	DefaultConfigurableMessage = "Hello from Sensor with Config"
)

// KindConfigurableSensor is the kind of ConfigurableSensor.
var KindConfigurableSensor = device.NewKind("ConfigurableSensor", KindMessageSensor)

// ConfigurableSensor is a MessageSensor whose configuration services also
// read and set the message.
type ConfigurableSensor struct {
	MessageSensor
}

// NewConfigurableSensor returns a configurable sensor.
func NewConfigurableSensor(target, displayName string) *ConfigurableSensor {
	if target == "" {
		target = DefaultConfigurableTarget
	}
	if displayName == "" {
		displayName = DefaultConfigurableName
	}
	s := &ConfigurableSensor{}
	s.Init(s, KindConfigurableSensor, target, displayName)
	s.msg = DefaultConfigurableMessage

	s.GetConfiguration().SetHandler(s.getConfiguration)
	s.SetConfiguration().SetHandler(s.setConfiguration)
	s.SetConfiguration().SetFormHandler(s.configForm)
	return s
}

func (s *ConfigurableSensor) getConfiguration(c *web.Context) {
	device.SendConfig(c,
		device.ConfigElement{Name: device.ArgDisplayName, Value: s.DisplayName()},
		device.ConfigElement{Name: ArgMessage, Value: s.msg},
	)
}

func (s *ConfigurableSensor) setConfiguration(c *web.Context) {
	set := s.SetConfiguration()
	for i := 0; i < c.ArgCount(); i++ {
		switch name := c.ArgName(i); {
		case strings.EqualFold(name, ArgMessage):
			s.SetMessage(c.Arg(i))
		case strings.EqualFold(name, device.ArgDisplayName):
			set.Rename(c.Arg(i))
		}
	}
	set.DisplayParent(c)
}

func (s *ConfigurableSensor) configForm(c *web.Context) {
	set := s.SetConfiguration()
	b := render.NewBuffer(render.FormSize)
	render.Header(b, "Set Sensor Configuration")
	render.Form(b, set.Path(), set.CancelPath(),
		render.Field{Label: "Sensor Name", Name: device.ArgDisplayName, Placeholder: s.DisplayName()},
		render.Field{Label: "Sensor Message", Name: ArgMessage, Placeholder: s.msg},
	)
	render.Tail(b)
	c.Send(http.StatusOK, render.ContentTypeHTML, b.Bytes())
}
