package device

import (
	"net/http"

	"github.com/nerrad567/webdevice-core/internal/render"
	"github.com/nerrad567/webdevice-core/internal/web"
)

// ControlHandler is the path suffix of a control's frame content.
const ControlHandler = "displayControl"

// Default frame size of a control on the root page.
const (
	DefaultFrameHeight = 75
	DefaultFrameWidth  = 300
)

// ControlNode is implemented by *Control and every type embedding it.
type ControlNode interface {
	DeviceNode
	BaseControl() *Control
}

// Control is a device with interactive content, embedded in an iframe on the
// root page. It carries a GetConfiguration and a SetConfiguration service.
type Control struct {
	Device
	getConfig *GetConfiguration
	setConfig *SetConfiguration
}

// NewControl returns a control with no content.
func NewControl(target, displayName string) *Control {
	c := &Control{}
	c.Init(c, KindControl, target, displayName)
	return c
}

// Init prepares a Control embedded in self.
func (c *Control) Init(self DeviceNode, kind *Kind, target, displayName string) {
	c.Device.Init(self, kind, target, displayName)
	c.presentation = Presentation{
		Mode:        PresentFrame,
		Frame:       ControlHandler,
		FrameHeight: DefaultFrameHeight,
		FrameWidth:  DefaultFrameWidth,
	}
	c.getConfig = NewGetConfiguration()
	c.setConfig = NewSetConfiguration()
	// A fresh device has room for both.
	_ = c.AddService(c.getConfig)
	_ = c.AddService(c.setConfig)
}

// BaseControl returns c.
func (c *Control) BaseControl() *Control { return c }

// GetConfiguration returns the control's GetConfiguration service.
func (c *Control) GetConfiguration() *GetConfiguration { return c.getConfig }

// SetConfiguration returns the control's SetConfiguration service.
func (c *Control) SetConfiguration() *SetConfiguration { return c.setConfig }

// SetFrameSize sets the iframe size used on the root and device pages.
func (c *Control) SetFrameSize(height, width int) {
	c.presentation.FrameHeight = height
	c.presentation.FrameWidth = width
}

// ContentPath returns the URL of the frame content.
func (c *Control) ContentPath() string { return c.HandlerPath(ControlHandler) }

// Setup registers the device page, the services and the frame content.
func (c *Control) Setup(d Dispatcher) {
	c.Device.Setup(d)
	d.On(c.ContentPath(), c.DisplayControl)
}

// DisplayControl sends the frame content page.
func (c *Control) DisplayControl(ctx *web.Context) {
	b := render.NewBuffer(render.FrameSize)
	render.Head(b)
	c.self.Content(b)
	render.Tail(b)
	ctx.Send(http.StatusOK, render.ContentTypeHTML, b.Bytes())
}

// Display sends the control page: the frame and a Configure button.
func (c *Control) Display(ctx *web.Context) {
	b := render.NewBuffer(render.PageSize)
	render.Header(b, c.displayName)
	render.Frame(b, c.ContentPath(), c.presentation.FrameHeight, c.presentation.FrameWidth)
	render.ConfigButton(b, c.setConfig.FormPath(), "Configure")
	render.Tail(b)
	ctx.Send(http.StatusOK, render.ContentTypeHTML, b.Bytes())
}
