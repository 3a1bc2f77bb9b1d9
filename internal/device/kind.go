package device

import "sync/atomic"

// Kind identifies a node type. Kinds are compared by identity and form a
// single-inheritance chain through Base.
type Kind struct {
	id   int32
	name string
	base *Kind
}

var kindSeq atomic.Int32

// NewKind allocates a kind derived from base. base is nil only for KindObject.
// Kinds are meant to be package-level variables created at init.
func NewKind(name string, base *Kind) *Kind {
	return &Kind{
		id:   kindSeq.Add(1),
		name: name,
		base: base,
	}
}

// Built-in kinds.
var (
	KindObject           = NewKind("Object", nil)
	KindService          = NewKind("Service", KindObject)
	KindDevice           = NewKind("Device", KindObject)
	KindRoot             = NewKind("RootDevice", KindDevice)
	KindGetConfiguration = NewKind("GetConfiguration", KindService)
	KindSetConfiguration = NewKind("SetConfiguration", KindService)
	KindSensor           = NewKind("Sensor", KindDevice)
	KindControl          = NewKind("Control", KindDevice)
)

// ID returns the kind's process-unique number, assigned in creation order.
func (k *Kind) ID() int { return int(k.id) }

// Name returns the kind's name, "" for a nil kind.
func (k *Kind) Name() string {
	if k == nil {
		return ""
	}
	return k.name
}

// Base returns the kind this one derives from.
func (k *Kind) Base() *Kind { return k.base }

func (k *Kind) String() string { return k.Name() }

// Is reports whether k is t or derives from t.
func (k *Kind) Is(t *Kind) bool {
	for c := k; c != nil; c = c.base {
		if c == t {
			return true
		}
	}
	return false
}

// Object is anything that can sit in the tree.
type Object interface {
	TreeNode() *Node
	Kind() *Kind
}

// IsKind reports whether o is of kind k. A nil o is of no kind.
func IsKind(o Object, k *Kind) bool {
	if o == nil {
		return false
	}
	ok := o.Kind()
	return ok != nil && ok.Is(k)
}

// As narrows o to T when o is of kind k. It returns the zero T and false
// when the kind does not match or o does not implement T.
//
// T should be an interface such as DeviceNode or SensorNode. A concrete
// pointer type only matches the outermost type, so As[*Sensor] fails on a
// type that embeds Sensor even though its kind derives from KindSensor.
//
//	if s, ok := device.As[device.SensorNode](d, device.KindSensor); ok {
//		cfg := s.BaseSensor().SetConfiguration()
//		...
//	}
func As[T Object](o Object, k *Kind) (T, bool) {
	var zero T
	if !IsKind(o, k) {
		return zero, false
	}
	t, ok := o.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
