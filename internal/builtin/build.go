package builtin

import (
	"errors"
	"fmt"

	"github.com/nerrad567/webdevice-core/internal/device"
	"github.com/nerrad567/webdevice-core/internal/infrastructure/config"
)

// ErrUnknownKind is returned by Build for a device kind it can not construct.
var ErrUnknownKind = errors.New("builtin: unknown device kind")

// Build constructs every configured device and adds it to root in order.
// It stops at the first error; devices added before it stay attached.
func Build(root *device.RootDevice, devices []config.DeviceConfig) error {
	for i, dc := range devices {
		dev, err := New(dc)
		if err != nil {
			return fmt.Errorf("device %d: %w", i, err)
		}
		if err := root.AddDevice(dev); err != nil {
			return fmt.Errorf("device %d: %w", i, err)
		}
	}
	return nil
}

// New constructs one device from its configuration.
func New(dc config.DeviceConfig) (device.DeviceNode, error) {
	var dev device.DeviceNode
	switch dc.Kind {
	case config.DeviceKindBasic:
		dev = NewBasicDevice(dc.Target, dc.Name)
	case config.DeviceKindMessageSensor:
		dev = NewMessageSensor(dc.Target, dc.Name)
	case config.DeviceKindConfigurableSensor:
		dev = NewConfigurableSensor(dc.Target, dc.Name)
	case config.DeviceKindToggle:
		t := NewToggleControl(dc.Target, dc.Name)
		p := t.Presentation()
		if dc.FrameHeight > 0 {
			p.FrameHeight = dc.FrameHeight
		}
		if dc.FrameWidth > 0 {
			p.FrameWidth = dc.FrameWidth
		}
		t.SetFrameSize(p.FrameHeight, p.FrameWidth)
		dev = t
	default:
		return nil, fmt.Errorf("%q: %w", dc.Kind, ErrUnknownKind)
	}

	if m, ok := device.As[MessageNode](dev, KindMessageSensor); ok {
		m.SetMessage(dc.Message)
	}
	if dc.UUID != "" {
		if err := dev.BaseDevice().SetUUID(dc.UUID); err != nil {
			return nil, err
		}
	}
	return dev, nil
}
