package builtin

import (
	"strings"

	"github.com/nerrad567/webdevice-core/internal/device"
	"github.com/nerrad567/webdevice-core/internal/event"
	"github.com/nerrad567/webdevice-core/internal/render"
	"github.com/nerrad567/webdevice-core/internal/web"
)

// StateHandler is the path suffix that switches a ToggleControl.
const StateHandler = "setState"

// ArgState carries ON or OFF to StateHandler. Name and value are matched
// ignoring case.
const ArgState = "STATE"

// Defaults for a ToggleControl built with empty arguments.
const (
	DefaultToggleTarget      = "toggle"
	DefaultToggleName        = "Control Test"
	DefaultToggleFrameHeight = 100
)

// KindToggleControl is the kind of ToggleControl.
var KindToggleControl = device.NewKind("ToggleControl", device.KindControl)

// ToggleControl is an ON/OFF switch. Its frame shows the switch and the
// current state; following the switch link flips it.
type ToggleControl struct {
	device.Control
	on bool
}

// NewToggleControl returns a control in the OFF state.
func NewToggleControl(target, displayName string) *ToggleControl {
	if target == "" {
		target = DefaultToggleTarget
	}
	if displayName == "" {
		displayName = DefaultToggleName
	}
	t := &ToggleControl{}
	t.Init(t, KindToggleControl, target, displayName)
	t.SetFrameSize(DefaultToggleFrameHeight, device.DefaultFrameWidth)
	return t
}

// IsOn reports the current state.
func (t *ToggleControl) IsOn() bool { return t.on }

// SetState switches the control and reports a change.
func (t *ToggleControl) SetState(on bool) {
	if on == t.on {
		return
	}
	t.on = on
	t.Notify(event.TypeStateChanged, stateName(on))
}

// StatePath returns the URL that switches the control.
func (t *ToggleControl) StatePath() string { return t.HandlerPath(StateHandler) }

// Setup registers the control pages and the state handler.
func (t *ToggleControl) Setup(d device.Dispatcher) {
	t.Control.Setup(d)
	d.On(t.StatePath(), t.handleSetState)
}

// Content writes the switch, linked to the opposite state, and a status line.
func (t *ToggleControl) Content(b *render.Buffer) {
	render.Toggle(b, t.StatePath()+"?"+ArgState+"="+stateName(!t.on), t.on)
	render.Paragraph(b, "Control is "+stateName(t.on))
}

// handleSetState applies the first STATE argument and redraws the frame.
// Values other than ON and OFF leave the state unchanged.
func (t *ToggleControl) handleSetState(c *web.Context) {
	for i := 0; i < c.ArgCount(); i++ {
		if !strings.EqualFold(c.ArgName(i), ArgState) {
			continue
		}
		switch v := c.Arg(i); {
		case strings.EqualFold(v, "ON"):
			t.SetState(true)
		case strings.EqualFold(v, "OFF"):
			t.SetState(false)
		}
		break
	}
	t.DisplayControl(c)
}

func stateName(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
