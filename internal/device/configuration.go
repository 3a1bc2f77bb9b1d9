package device

import (
	"bytes"
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/nerrad567/webdevice-core/internal/event"
	"github.com/nerrad567/webdevice-core/internal/render"
	"github.com/nerrad567/webdevice-core/internal/web"
)

// Configuration service targets and the argument they understand.
const (
	GetConfigurationTarget = "getConfiguration"
	SetConfigurationTarget = "setConfiguration"

	// ArgDisplayName renames the device. Matched ignoring case.
	ArgDisplayName = "displayName"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>`

// GetConfiguration replies with the parent device's configuration as XML.
type GetConfiguration struct {
	Service
}

// NewGetConfiguration returns a GetConfiguration service.
func NewGetConfiguration() *GetConfiguration {
	g := &GetConfiguration{}
	g.Init(g, KindGetConfiguration, GetConfigurationTarget, "Get Configuration")
	g.SetHandler(g.handle)
	return g
}

func (g *GetConfiguration) handle(c *web.Context) {
	name := g.displayName
	if g.parent != nil {
		name = g.parent.TreeNode().DisplayName()
	}
	SendConfig(c, ConfigElement{Name: "displayName", Value: name})
}

// ConfigElement is one element of a configuration reply.
type ConfigElement struct {
	Name  string
	Value string
}

// SendConfig replies with a <config> document holding elems in order.
func SendConfig(c *web.Context, elems ...ConfigElement) {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	buf.WriteString("<config>")
	for _, e := range elems {
		buf.WriteString("<" + e.Name + ">")
		//nolint:errcheck // bytes.Buffer writes do not fail
		xml.EscapeText(&buf, []byte(e.Value))
		buf.WriteString("</" + e.Name + ">")
	}
	buf.WriteString("</config>")
	c.Send(http.StatusOK, render.ContentTypeXML, buf.Bytes())
}

// SetConfiguration renames the parent device from the displayName argument
// and serves a form for doing so at its form path.
type SetConfiguration struct {
	Service
}

// NewSetConfiguration returns a SetConfiguration service.
func NewSetConfiguration() *SetConfiguration {
	s := &SetConfiguration{}
	s.Init(s, KindSetConfiguration, SetConfigurationTarget, "Set Configuration")
	s.SetHandler(s.handle)
	s.SetFormHandler(s.handleForm)
	return s
}

func (s *SetConfiguration) handle(c *web.Context) {
	for i := 0; i < c.ArgCount(); i++ {
		if strings.EqualFold(c.ArgName(i), ArgDisplayName) {
			s.Rename(c.Arg(i))
		}
	}
	s.DisplayParent(c)
}

// Rename sets the parent's display name. An empty name is ignored.
func (s *SetConfiguration) Rename(name string) {
	if name == "" || s.parent == nil {
		return
	}
	p := s.parent.TreeNode()
	p.SetDisplayName(name)
	p.Notify(event.TypeDisplayNameChanged, p.DisplayName())
}

// DisplayParent sends the parent device page.
func (s *SetConfiguration) DisplayParent(c *web.Context) {
	if d, ok := As[DeviceNode](s.parent, KindDevice); ok {
		d.Display(c)
		return
	}
	c.Send(http.StatusNotFound, "text/plain", []byte("no device"))
}

// CancelPath returns where a form's Cancel button leads: the parent page.
func (s *SetConfiguration) CancelPath() string {
	if s.parent != nil {
		return s.parent.TreeNode().Path()
	}
	return "/" + s.target
}

func (s *SetConfiguration) handleForm(c *web.Context) {
	placeholder := s.displayName
	if s.parent != nil {
		placeholder = s.parent.TreeNode().DisplayName()
	}
	b := render.NewBuffer(render.FormSize)
	render.Header(b, "Set Display Name")
	render.Form(b, s.Path(), s.CancelPath(), render.Field{
		Label:       "Device Name",
		Name:        ArgDisplayName,
		Placeholder: placeholder,
	})
	render.Tail(b)
	c.Send(http.StatusOK, render.ContentTypeHTML, b.Bytes())
}
