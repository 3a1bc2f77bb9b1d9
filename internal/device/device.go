package device

import (
	"fmt"
	"net/http"

	"github.com/nerrad567/webdevice-core/internal/render"
	"github.com/nerrad567/webdevice-core/internal/web"
)

// MaxServices is the number of services a device can hold.
const MaxServices = 8

// DeviceNode is implemented by *Device and every type embedding it.
// Embedding types override the methods whose behaviour they change.
type DeviceNode interface {
	Object
	BaseDevice() *Device
	Setup(d Dispatcher)
	Display(c *web.Context)
	Presentation() Presentation
	Content(b *render.Buffer)
	Loop()
}

// Device is a tree node holding up to MaxServices services.
type Device struct {
	Node
	self         DeviceNode
	uuid         string
	services     []ServiceNode
	presentation Presentation
}

// NewDevice returns an empty device.
func NewDevice(target, displayName string) *Device {
	d := &Device{}
	d.Init(d, KindDevice, target, displayName)
	return d
}

// Init prepares a Device embedded in self. Types embedding Device call it
// from their constructor with their own kind, so that routes and the root
// page reach self's methods.
func (d *Device) Init(self DeviceNode, kind *Kind, target, displayName string) {
	d.Node.init(self, kind, target, displayName)
	d.self = self
	d.services = make([]ServiceNode, 0, MaxServices)
	d.presentation = Presentation{Mode: PresentLink}
}

// adopt fills in self and kind on a Device that was never initialised.
func (d *Device) adopt(self DeviceNode) {
	if d.self == nil {
		d.self = self
	}
	d.Node.adopt(d.self, KindDevice)
}

// BaseDevice returns d.
func (d *Device) BaseDevice() *Device { return d }

// UUID returns the device identifier, "" until one is set or generated.
func (d *Device) UUID() string { return d.uuid }

// SetUUID sets the device identifier. An invalid identifier is rejected
// with ErrInvalidIdentifier and the current one is kept.
func (d *Device) SetUUID(id string) error {
	if err := checkIdentifier(id); err != nil {
		return err
	}
	d.uuid = id
	return nil
}

// AddService attaches svc to d. An empty target becomes "serviceN", N being
// the insertion index. When the tree is already wired svc is set up at once.
//
// A full device drops svc and returns ErrCapacityExceeded.
func (d *Device) AddService(svc ServiceNode) error {
	if svc == nil {
		return ErrNilNode
	}
	d.adopt(d)
	n := svc.TreeNode()
	if n.parent != nil {
		return fmt.Errorf("adding service %q: %w", n.target, ErrAlreadyAttached)
	}
	if d.Node.encloses(n) {
		return fmt.Errorf("adding service %q to %q: %w", n.target, d.target, ErrCycle)
	}
	if len(d.services) >= MaxServices {
		d.logger().Warn("service dropped, device is full",
			"device", d.target, "service", n.target, "max", MaxServices)
		return fmt.Errorf("adding service %q to %q: %w", n.target, d.target, ErrCapacityExceeded)
	}

	if n.target == "" {
		n.target = fmt.Sprintf("service%d", len(d.services))
	}
	n.adopt(svc, KindService)
	n.parent = d.self
	d.services = append(d.services, svc)

	if disp := d.dispatcher(); disp != nil {
		d.logger().Info("late binding service", "path", n.Path())
		svc.Setup(disp)
	}
	return nil
}

// ServiceAt returns the service at index i.
func (d *Device) ServiceAt(i int) (ServiceNode, bool) {
	if i < 0 || i >= len(d.services) {
		return nil, false
	}
	return d.services[i], true
}

// ServiceCount returns the number of attached services.
func (d *Device) ServiceCount() int { return len(d.services) }

// ServiceByKind returns the first service of kind k.
func (d *Device) ServiceByKind(k *Kind) (ServiceNode, bool) {
	for _, s := range d.services {
		if IsKind(s, k) {
			return s, true
		}
	}
	return nil, false
}

// Presentation returns how the root page shows d.
func (d *Device) Presentation() Presentation { return d.presentation }

// SetPresentation changes how the root page shows d.
func (d *Device) SetPresentation(p Presentation) { d.presentation = p }

// Content writes the device's inline content. A plain device has none.
func (d *Device) Content(*render.Buffer) {}

// Loop is the device's periodic work. A plain device has none.
func (d *Device) Loop() {}

// Setup registers the device page, then sets up every service in order.
func (d *Device) Setup(disp Dispatcher) {
	d.adopt(d)
	path := d.Path()
	disp.On(path, d.self.Display)
	d.logger().Debug("device registered", "path", path, "kind", d.kind.Name())
	for _, s := range d.services {
		s.Setup(disp)
	}
}

// Display sends the device page: one button per service.
func (d *Device) Display(c *web.Context) {
	b := render.NewBuffer(render.PageSize)
	render.Header(b, d.displayName)
	d.writeServiceButtons(b)
	render.Tail(b)
	c.Send(http.StatusOK, render.ContentTypeHTML, b.Bytes())
}

func (d *Device) writeServiceButtons(b *render.Buffer) {
	for _, s := range d.services {
		render.AppButton(b, s.TreeNode().Path(), s.TreeNode().DisplayName())
	}
}
