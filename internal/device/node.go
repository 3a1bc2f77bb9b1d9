package device

import (
	"fmt"
	"strings"

	"github.com/nerrad567/webdevice-core/internal/event"
	"github.com/nerrad567/webdevice-core/internal/render"
)

// Size limits for node strings.
const (
	// MaxTargetLen bounds a target. Longer targets are cut.
	MaxTargetLen = 31

	// MaxDisplayNameLen bounds a display name. Longer names are cut.
	MaxDisplayNameLen = 31

	// MaxPathLen bounds a computed path. Longer paths are cut.
	MaxPathLen = 100
)

// Node is the state shared by every object in the tree: a target, a display
// name and a back-reference to the parent. It is embedded by Service and
// Device; it is not used on its own.
type Node struct {
	target      string
	displayName string
	parent      Object // not owned
	self        Object // the outermost value embedding this Node
	kind        *Kind
}

// init sets up a node built by a constructor. A target that still holds a
// '/' after the leading one is stripped is dropped, so the parent's default
// name applies.
func (n *Node) init(self Object, kind *Kind, target, displayName string) {
	n.self = self
	n.kind = kind
	target = strings.TrimPrefix(target, "/")
	if strings.Contains(target, "/") {
		target = ""
	}
	n.target = render.Truncate(target, MaxTargetLen)
	n.displayName = render.Truncate(displayName, MaxDisplayNameLen)
}

// adopt fills in self and kind on a node that was never initialised.
func (n *Node) adopt(self Object, kind *Kind) {
	if n.self == nil {
		n.self = self
	}
	if n.kind == nil {
		n.kind = kind
	}
}

// encloses reports whether o is n or one of n's ancestors.
func (n *Node) encloses(o *Node) bool {
	for c := n; ; c = c.parent.TreeNode() {
		if c == o {
			return true
		}
		if c.parent == nil {
			return false
		}
	}
}

// TreeNode returns n. It lets every embedding type satisfy Object.
func (n *Node) TreeNode() *Node { return n }

// Kind returns the node's kind.
func (n *Node) Kind() *Kind { return n.kind }

// Target returns the node's path segment.
func (n *Node) Target() string { return n.target }

// DisplayName returns the human readable name.
func (n *Node) DisplayName() string { return n.displayName }

// Parent returns the node's parent, or nil for a root or unattached node.
func (n *Node) Parent() Object { return n.parent }

// SetTarget sets the node's path segment. One leading '/' is stripped.
// Targets can not change once the tree has been wired to a dispatcher.
func (n *Node) SetTarget(target string) error {
	target = strings.TrimPrefix(target, "/")
	if strings.Contains(target, "/") {
		return fmt.Errorf("setting target %q: %w", target, ErrInvalidTarget)
	}
	if r := n.Root(); r != nil && r.disp != nil {
		return fmt.Errorf("setting target %q: %w", target, ErrTargetLocked)
	}
	n.target = render.Truncate(target, MaxTargetLen)
	return nil
}

// SetDisplayName sets the human readable name.
func (n *Node) SetDisplayName(name string) {
	n.displayName = render.Truncate(name, MaxDisplayNameLen)
}

// WritePath writes the node's path into b, root first.
func (n *Node) WritePath(b *render.Buffer) {
	if n.parent != nil {
		n.parent.TreeNode().WritePath(b)
	}
	b.WriteString("/")
	b.WriteString(n.target)
}

// Path returns the node's absolute path, e.g. "/root/lamp/service0".
func (n *Node) Path() string {
	b := render.NewBuffer(MaxPathLen)
	n.WritePath(b)
	return b.String()
}

// HandlerPath returns Path with "/suffix" appended, the URL of one of the
// node's action endpoints.
func (n *Node) HandlerPath(suffix string) string {
	b := render.NewBuffer(MaxPathLen)
	n.WritePath(b)
	b.WriteString("/")
	b.WriteString(suffix)
	return b.String()
}

// Root returns the RootDevice at the top of the node's parent chain, or nil
// when the top is not a RootDevice.
func (n *Node) Root() *RootDevice {
	var top Object = n.self
	if top == nil {
		return nil
	}
	for top.TreeNode().parent != nil {
		top = top.TreeNode().parent
	}
	r, _ := As[*RootDevice](top, KindRoot)
	return r
}

// Location returns the absolute URL of the node as seen from host, using the
// port of the dispatcher the tree is wired to. It is "" when the node is not
// part of a wired tree.
func (n *Node) Location(host string) string {
	r := n.Root()
	if r == nil || r.disp == nil {
		return ""
	}
	return fmt.Sprintf("http://%s:%d%s", host, r.port, n.Path())
}

// Notify reports an event about the node to its root's notifier, if any.
// Events about a service carry the identifier of the service's device.
func (n *Node) Notify(typ event.Type, value string) {
	r := n.Root()
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Notify(event.New(typ, n.deviceID(), n.Path(), n.displayName, value))
}

func (n *Node) deviceID() string {
	for o := n.self; o != nil; o = o.TreeNode().parent {
		if d, ok := As[DeviceNode](o, KindDevice); ok {
			return d.BaseDevice().uuid
		}
	}
	return ""
}

func (n *Node) logger() Logger {
	if r := n.Root(); r != nil {
		return r.log
	}
	return noopLogger{}
}

// dispatcher returns the dispatcher the node's tree is wired to, or nil.
func (n *Node) dispatcher() Dispatcher {
	if r := n.Root(); r != nil {
		return r.disp
	}
	return nil
}

var pathEscapes = [...]struct {
	c   byte
	esc string
}{
	{'/', "%2F"},
	{'?', "%3F"},
	{'=', "%3D"},
	{'&', "%26"},
	{'+', "%2B"},
}

// WriteEncodedPath writes path into b with '/', '?', '=', '&' and '+'
// percent-encoded, so the path can travel as a query argument. An escape
// that does not fit is dropped whole.
func WriteEncodedPath(b *render.Buffer, path string) {
	start := 0
	for i := 0; i < len(path); i++ {
		for _, e := range pathEscapes {
			if path[i] != e.c {
				continue
			}
			b.WriteString(path[start:i])
			if !b.WriteAtomic(e.esc) {
				return
			}
			start = i + 1
			break
		}
	}
	b.WriteString(path[start:])
}

// EncodePath returns path with '/', '?', '=', '&' and '+' percent-encoded.
func EncodePath(path string) string {
	b := render.NewBuffer(3 * len(path))
	WriteEncodedPath(b, path)
	return b.String()
}
