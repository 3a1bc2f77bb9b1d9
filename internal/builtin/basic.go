package builtin

import "github.com/nerrad567/webdevice-core/internal/device"

// KindBasicDevice is the kind of BasicDevice.
var KindBasicDevice = device.NewKind("BasicDevice", device.KindDevice)

// BasicDevice is a device carrying only the configuration services. Callers
// add their own services to it.
type BasicDevice struct {
	device.Device
	getConfig *device.GetConfiguration
	setConfig *device.SetConfiguration
}

// NewBasicDevice returns a device with GetConfiguration and SetConfiguration
// attached.
func NewBasicDevice(target, displayName string) *BasicDevice {
	d := &BasicDevice{
		getConfig: device.NewGetConfiguration(),
		setConfig: device.NewSetConfiguration(),
	}
	d.Init(d, KindBasicDevice, target, displayName)
	// A fresh device has room for both.
	_ = d.AddService(d.getConfig)
	_ = d.AddService(d.setConfig)
	return d
}

// GetConfiguration returns the device's GetConfiguration service.
func (d *BasicDevice) GetConfiguration() *device.GetConfiguration { return d.getConfig }

// SetConfiguration returns the device's SetConfiguration service.
func (d *BasicDevice) SetConfiguration() *device.SetConfiguration { return d.setConfig }
