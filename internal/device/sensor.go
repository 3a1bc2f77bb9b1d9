package device

import (
	"net/http"

	"github.com/nerrad567/webdevice-core/internal/render"
	"github.com/nerrad567/webdevice-core/internal/web"
)

// SensorNode is implemented by *Sensor and every type embedding it.
type SensorNode interface {
	DeviceNode
	BaseSensor() *Sensor
}

// Sensor is a device with readable content shown inline on the root page.
// It carries a GetConfiguration and a SetConfiguration service.
type Sensor struct {
	Device
	getConfig *GetConfiguration
	setConfig *SetConfiguration
}

// NewSensor returns a sensor with no content.
func NewSensor(target, displayName string) *Sensor {
	s := &Sensor{}
	s.Init(s, KindSensor, target, displayName)
	return s
}

// Init prepares a Sensor embedded in self.
func (s *Sensor) Init(self DeviceNode, kind *Kind, target, displayName string) {
	s.Device.Init(self, kind, target, displayName)
	s.presentation = Presentation{Mode: PresentInline}
	s.getConfig = NewGetConfiguration()
	s.setConfig = NewSetConfiguration()
	// A fresh device has room for both.
	_ = s.AddService(s.getConfig)
	_ = s.AddService(s.setConfig)
}

// BaseSensor returns s.
func (s *Sensor) BaseSensor() *Sensor { return s }

// GetConfiguration returns the sensor's GetConfiguration service.
func (s *Sensor) GetConfiguration() *GetConfiguration { return s.getConfig }

// SetConfiguration returns the sensor's SetConfiguration service.
func (s *Sensor) SetConfiguration() *SetConfiguration { return s.setConfig }

// Display sends the sensor page: its content and a Configure button.
func (s *Sensor) Display(c *web.Context) {
	b := render.NewBuffer(render.PageSize)
	render.Header(b, s.displayName)
	s.self.Content(b)
	render.ConfigButton(b, s.setConfig.FormPath(), "Configure")
	render.Tail(b)
	c.Send(http.StatusOK, render.ContentTypeHTML, b.Bytes())
}
