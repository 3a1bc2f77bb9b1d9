package device

// PresentMode selects how the root page shows a child device.
type PresentMode int

// Present modes.
const (
	// PresentLink shows a button linking to the device page.
	PresentLink PresentMode = iota

	// PresentInline writes the device content into the root page.
	PresentInline

	// PresentFrame embeds the device's frame handler in an iframe under a title.
	PresentFrame
)

func (m PresentMode) String() string {
	switch m {
	case PresentInline:
		return "inline"
	case PresentFrame:
		return "frame"
	default:
		return "link"
	}
}

// Presentation describes how the root page shows a device.
type Presentation struct {
	Mode PresentMode

	// Frame is the handler suffix embedded when Mode is PresentFrame.
	Frame       string
	FrameHeight int
	FrameWidth  int
}
