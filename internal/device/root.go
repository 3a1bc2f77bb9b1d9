package device

import (
	"fmt"
	"net/http"

	"github.com/nerrad567/webdevice-core/internal/event"
	"github.com/nerrad567/webdevice-core/internal/render"
	"github.com/nerrad567/webdevice-core/internal/web"
)

// MaxDevices is the number of child devices a root can hold.
const MaxDevices = 8

// Defaults for a root built with empty arguments.
const (
	DefaultRootTarget = "root"
	DefaultRootName   = "Root Device"
)

// RootDevice is the top of the tree. It holds up to MaxDevices child devices
// and, once Setup has run, the dispatcher every node registers with.
type RootDevice struct {
	Device
	devices  []DeviceNode
	disp     Dispatcher
	port     int
	log      Logger
	notifier Notifier
}

// NewRootDevice returns a root with a fresh identifier. Empty arguments
// select DefaultRootTarget and DefaultRootName.
func NewRootDevice(target, displayName string) *RootDevice {
	if target == "" {
		target = DefaultRootTarget
	}
	if displayName == "" {
		displayName = DefaultRootName
	}
	r := &RootDevice{log: noopLogger{}}
	r.Init(r, KindRoot, target, displayName)
	r.devices = make([]DeviceNode, 0, MaxDevices)
	r.uuid = NewIdentifier()
	return r
}

// SetLogger sets the logger used by every node of the tree.
func (r *RootDevice) SetLogger(l Logger) {
	if l == nil {
		l = noopLogger{}
	}
	r.log = l
}

// SetNotifier sets where the tree's events go. nil discards them.
func (r *RootDevice) SetNotifier(n Notifier) { r.notifier = n }

// Port returns the dispatcher port recorded by Setup, 0 before.
func (r *RootDevice) Port() int { return r.port }

// IsSetup reports whether Setup has wired the tree to a dispatcher.
func (r *RootDevice) IsSetup() bool { return r.disp != nil }

// AddDevice attaches dev to r. An empty target becomes "deviceN", N being
// the insertion index, and a device without an identifier gets a new one.
// When r is already wired dev is set up at once.
//
// A full root drops dev and returns ErrCapacityExceeded.
func (r *RootDevice) AddDevice(dev DeviceNode) error {
	if dev == nil {
		return ErrNilNode
	}
	n := dev.TreeNode()
	if n.parent != nil {
		return fmt.Errorf("adding device %q: %w", n.target, ErrAlreadyAttached)
	}
	if r.Node.encloses(n) {
		return fmt.Errorf("adding device %q to %q: %w", n.target, r.target, ErrCycle)
	}
	if len(r.devices) >= MaxDevices {
		r.log.Warn("device dropped, root is full",
			"root", r.target, "device", n.target, "max", MaxDevices)
		return fmt.Errorf("adding device %q to %q: %w", n.target, r.target, ErrCapacityExceeded)
	}

	if n.target == "" {
		n.target = fmt.Sprintf("device%d", len(r.devices))
	}
	base := dev.BaseDevice()
	base.adopt(dev)
	if base.uuid == "" {
		base.uuid = NewIdentifier()
	}
	n.parent = r
	r.devices = append(r.devices, dev)

	if r.disp != nil {
		r.log.Info("late binding device", "path", n.Path())
		dev.Setup(r.disp)
	}
	n.Notify(event.TypeDeviceAdded, dev.Kind().Name())
	return nil
}

// DeviceAt returns the child device at index i.
func (r *RootDevice) DeviceAt(i int) (DeviceNode, bool) {
	if i < 0 || i >= len(r.devices) {
		return nil, false
	}
	return r.devices[i], true
}

// DeviceCount returns the number of child devices.
func (r *RootDevice) DeviceCount() int { return len(r.devices) }

// DeviceByID returns the device with identifier id: the root itself or the
// first matching child.
func (r *RootDevice) DeviceByID(id string) (DeviceNode, bool) {
	if id == "" {
		return nil, false
	}
	if r.uuid == id {
		return r, true
	}
	for _, d := range r.devices {
		if d.BaseDevice().uuid == id {
			return d, true
		}
	}
	return nil, false
}

// DeviceByKind returns the first child device of kind k.
func (r *RootDevice) DeviceByKind(k *Kind) (DeviceNode, bool) {
	for _, d := range r.devices {
		if IsKind(d, k) {
			return d, true
		}
	}
	return nil, false
}

// Setup wires the tree to disp: the stylesheet, the site index "/", the root
// page, then every root service and every child device in order. Only the
// first call has any effect.
func (r *RootDevice) Setup(disp Dispatcher) {
	if disp == nil {
		r.log.Warn("root setup without a dispatcher ignored")
		return
	}
	if r.disp != nil {
		r.log.Warn("root setup called twice, ignoring", "path", r.Path())
		return
	}
	r.disp = disp
	r.port = disp.LocalPort()

	disp.On(render.StylesPath, r.handleStyles)
	disp.On("/", r.DisplayRoot)
	disp.On(r.Path(), r.Display)

	for _, s := range r.services {
		s.Setup(disp)
	}
	for _, d := range r.devices {
		d.Setup(disp)
	}

	r.log.Info("device tree wired",
		"root", r.Path(),
		"port", r.port,
		"devices", len(r.devices),
		"services", len(r.services),
	)
}

func (r *RootDevice) handleStyles(c *web.Context) {
	c.Send(http.StatusOK, render.ContentTypeCSS, render.Styles())
}

// Display sends the root device page: a button per child device, then a
// button per root service.
func (r *RootDevice) Display(c *web.Context) {
	b := render.NewBuffer(render.PageSize)
	render.Header(b, r.displayName)
	for _, d := range r.devices {
		render.AppButton(b, d.TreeNode().Path(), d.TreeNode().DisplayName())
	}
	r.writeServiceButtons(b)
	render.Tail(b)
	c.Send(http.StatusOK, render.ContentTypeHTML, b.Bytes())
}

// DisplayRoot sends the site index page.
func (r *RootDevice) DisplayRoot(c *web.Context) {
	b := render.NewBuffer(render.PageSize)
	render.Header(b, r.displayName)
	r.Content(b)
	render.Tail(b)
	c.Send(http.StatusOK, render.ContentTypeHTML, b.Bytes())
}

// Content writes every child device the way its Presentation asks, then a
// button to the root device page.
func (r *RootDevice) Content(b *render.Buffer) {
	for _, d := range r.devices {
		n := d.TreeNode()
		p := d.Presentation()
		switch p.Mode {
		case PresentInline:
			d.Content(b)
		case PresentFrame:
			render.Title(b, n.DisplayName())
			render.Frame(b, n.HandlerPath(p.Frame), p.FrameHeight, p.FrameWidth)
		default:
			render.AppButton(b, n.Path(), n.DisplayName())
		}
	}
	render.AppButton(b, r.Path(), "This Device")
}

// Loop runs Loop on every child device in order.
func (r *RootDevice) Loop() {
	for _, d := range r.devices {
		d.Loop()
	}
}

// RootLocation returns the URL of the site index as seen from host, or ""
// before Setup.
func (r *RootDevice) RootLocation(host string) string {
	if r.disp == nil {
		return ""
	}
	return fmt.Sprintf("http://%s:%d/", host, r.port)
}
