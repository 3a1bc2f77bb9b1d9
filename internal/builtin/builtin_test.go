package builtin

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nerrad567/webdevice-core/internal/device"
	"github.com/nerrad567/webdevice-core/internal/event"
	"github.com/nerrad567/webdevice-core/internal/infrastructure/config"
	"github.com/nerrad567/webdevice-core/internal/web"
)

type fakeDispatcher struct {
	handlers map[string]web.HandlerFunc
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{handlers: make(map[string]web.HandlerFunc)}
}

func (d *fakeDispatcher) On(path string, h web.HandlerFunc) { d.handlers[path] = h }
func (d *fakeDispatcher) LocalPort() int                    { return 80 }

func (d *fakeDispatcher) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	path, _, _ := strings.Cut(target, "?")
	h, ok := d.handlers[path]
	if !ok {
		t.Fatalf("no handler for %q", path)
	}
	w := httptest.NewRecorder()
	h(web.NewContext(w, httptest.NewRequest(http.MethodGet, target, nil)))
	return w
}

type fakeNotifier struct {
	events []event.Event
}

func (n *fakeNotifier) Notify(e event.Event) { n.events = append(n.events, e) }

// wire attaches dev to a fresh root and wires the tree.
func wire(t *testing.T, dev device.DeviceNode) (*fakeDispatcher, *fakeNotifier) {
	t.Helper()
	root := device.NewRootDevice("", "")
	n := &fakeNotifier{}
	root.SetNotifier(n)
	if err := root.AddDevice(dev); err != nil {
		t.Fatalf("AddDevice() error = %v", err)
	}
	d := newFakeDispatcher()
	root.Setup(d)
	return d, n
}

func TestMessageSensor(t *testing.T) {
	s := NewMessageSensor("", "")
	if s.Target() != DefaultSensorTarget || s.DisplayName() != DefaultSensorName {
		t.Errorf("defaults = %q/%q", s.Target(), s.DisplayName())
	}
	if !device.IsKind(s, device.KindSensor) || !device.IsKind(s, KindMessageSensor) {
		t.Error("MessageSensor is not a Sensor")
	}

	d, n := wire(t, s)
	s.SetMessage("21.5 C")
	s.SetMessage("")

	page := d.get(t, "/root/sensor").Body.String()
	if !strings.Contains(page, "Sensor Message is: 21.5 C") {
		t.Errorf("sensor page:\n%s", page)
	}
	index := d.get(t, "/").Body.String()
	if !strings.Contains(index, "Sensor Message is: 21.5 C") {
		t.Errorf("root index:\n%s", index)
	}
	if len(n.events) != 2 || n.events[1].Type != event.TypeStateChanged || n.events[1].Value != "21.5 C" {
		t.Errorf("events = %+v", n.events)
	}
}

func TestMessageTruncated(t *testing.T) {
	s := NewMessageSensor("", "")
	s.SetMessage(strings.Repeat("m", MaxMessageLen+20))
	if len(s.Message()) != MaxMessageLen {
		t.Errorf("len(Message()) = %d, want %d", len(s.Message()), MaxMessageLen)
	}
}

func TestConfigurableSensorGet(t *testing.T) {
	s := NewConfigurableSensor("", "")
	d, _ := wire(t, s)

	w := d.get(t, "/root/sensorwc/getConfiguration")
	want := `<config><displayName>Sensor With Config</displayName><msg>Hello from Sensor with Config</msg></config>`
	if !strings.HasSuffix(w.Body.String(), want) {
		t.Errorf("body = %q, want suffix %q", w.Body.String(), want)
	}
}

func TestConfigurableSensorSet(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantName string
		wantMsg  string
	}{
		{"both", "?displayName=Hall&msg=cold", "Hall", "cold"},
		{"case insensitive", "?DISPLAYNAME=Hall&MSG=cold", "Hall", "cold"},
		{"message only", "?msg=warm", DefaultConfigurableName, "warm"},
		{"empty name ignored", "?displayName=&msg=warm", DefaultConfigurableName, "warm"},
		{"empty message ignored", "?msg=", DefaultConfigurableName, DefaultConfigurableMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewConfigurableSensor("", "")
			d, _ := wire(t, s)

			page := d.get(t, "/root/sensorwc/setConfiguration"+tt.query).Body.String()
			if s.DisplayName() != tt.wantName || s.Message() != tt.wantMsg {
				t.Errorf("name/msg = %q/%q, want %q/%q", s.DisplayName(), s.Message(), tt.wantName, tt.wantMsg)
			}
			if !strings.Contains(page, "Sensor Message is: "+tt.wantMsg) {
				t.Errorf("reply is not the sensor page:\n%s", page)
			}
		})
	}
}

func TestConfigurableSensorForm(t *testing.T) {
	s := NewConfigurableSensor("", "")
	d, _ := wire(t, s)

	body := d.get(t, "/root/sensorwc/setConfiguration/configForm").Body.String()
	for _, want := range []string{
		"<title>Set Sensor Configuration</title>",
		`<form action="/root/sensorwc/setConfiguration">`,
		`placeholder="Sensor With Config" name="displayName"`,
		`placeholder="Hello from Sensor with Config" name="msg"`,
		`window.location.href='/root/sensorwc';`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("form missing %q:\n%s", want, body)
		}
	}
}

func TestToggleControl(t *testing.T) {
	tg := NewToggleControl("", "")
	if p := tg.Presentation(); p.FrameHeight != DefaultToggleFrameHeight || p.FrameWidth != device.DefaultFrameWidth {
		t.Errorf("frame = %dx%d", p.FrameHeight, p.FrameWidth)
	}
	d, n := wire(t, tg)

	frame := d.get(t, "/root/toggle/displayControl").Body.String()
	if !strings.Contains(frame, `href="/root/toggle/setState?STATE=ON"`) || !strings.Contains(frame, "Control is OFF") {
		t.Errorf("initial frame:\n%s", frame)
	}

	steps := []struct {
		query string
		want  bool
	}{
		{"?STATE=ON", true},
		{"?state=on", true},
		{"?State=Off", false},
		{"?STATE=maybe", false},
		{"?other=1", false},
		{"", false},
		{"?x=1&STATE=ON&STATE=OFF", true},
	}
	for _, s := range steps {
		w := d.get(t, "/root/toggle/setState"+s.query)
		if tg.IsOn() != s.want {
			t.Errorf("after %q IsOn() = %v, want %v", s.query, tg.IsOn(), s.want)
		}
		if !strings.Contains(w.Body.String(), "Control is "+stateName(s.want)) {
			t.Errorf("after %q frame:\n%s", s.query, w.Body.String())
		}
	}

	var changes []string
	for _, e := range n.events {
		if e.Type == event.TypeStateChanged {
			changes = append(changes, e.Value)
		}
	}
	if strings.Join(changes, ",") != "ON,OFF,ON" {
		t.Errorf("state changes = %v, want ON,OFF,ON", changes)
	}
}

func TestToggleRootIndexFrames(t *testing.T) {
	tg := NewToggleControl("lamp", "Lamp")
	d, _ := wire(t, tg)

	index := d.get(t, "/").Body.String()
	if !strings.Contains(index, `<iframe src="/root/lamp/displayControl" height="100" width="300"`) {
		t.Errorf("root index:\n%s", index)
	}
}

func TestBasicDevice(t *testing.T) {
	b := NewBasicDevice("", "Hub")
	d, _ := wire(t, b)

	if b.Target() != "device0" {
		t.Errorf("Target() = %q, want device0", b.Target())
	}
	d.get(t, "/root/device0/setConfiguration?displayName=Main")
	if b.DisplayName() != "Main" {
		t.Errorf("DisplayName() = %q, want Main", b.DisplayName())
	}
	page := d.get(t, "/root/device0").Body.String()
	if !strings.Contains(page, ">Get Configuration</button>") || !strings.Contains(page, "<title>Main</title>") {
		t.Errorf("device page:\n%s", page)
	}
}

func TestBuild(t *testing.T) {
	const id = "123e4567-e89b-42d3-a456-426614174000"
	root := device.NewRootDevice("", "")
	err := Build(root, []config.DeviceConfig{
		{Kind: config.DeviceKindMessageSensor, Target: "temp", Name: "Temperature", Message: "20 C", UUID: id},
		{Kind: config.DeviceKindConfigurableSensor},
		{Kind: config.DeviceKindToggle, Target: "lamp", FrameHeight: 120},
		{Kind: config.DeviceKindBasic, Name: "Plain"},
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if root.DeviceCount() != 4 {
		t.Fatalf("DeviceCount() = %d, want 4", root.DeviceCount())
	}

	dev, ok := root.DeviceByID(id)
	if !ok {
		t.Fatal("configured identifier not applied")
	}
	ms, ok := device.As[*MessageSensor](dev, KindMessageSensor)
	if !ok || ms.Message() != "20 C" || ms.DisplayName() != "Temperature" {
		t.Errorf("message sensor = %+v, %v", ms, ok)
	}

	cs, ok := root.DeviceByKind(KindConfigurableSensor)
	if !ok {
		t.Fatal("configurable sensor missing")
	}
	// A derived sensor narrows through the interface, not the struct.
	if _, ok := device.As[*MessageSensor](cs, KindMessageSensor); ok {
		t.Error("As[*MessageSensor](configurable sensor) reported ok")
	}
	if m, ok := device.As[MessageNode](cs, KindMessageSensor); !ok || m.Message() != DefaultConfigurableMessage {
		t.Errorf("As[MessageNode](configurable sensor) = %v, %v", m, ok)
	}
	toggle, ok := root.DeviceByKind(KindToggleControl)
	if !ok {
		t.Fatal("toggle missing")
	}
	if p := toggle.Presentation(); p.FrameHeight != 120 || p.FrameWidth != device.DefaultFrameWidth {
		t.Errorf("toggle frame = %dx%d", p.FrameHeight, p.FrameWidth)
	}
	basic, _ := root.DeviceAt(3)
	if basic.TreeNode().Target() != "device3" {
		t.Errorf("basic target = %q, want device3", basic.TreeNode().Target())
	}
}

func TestBuildErrors(t *testing.T) {
	t.Run("unknown kind", func(t *testing.T) {
		root := device.NewRootDevice("", "")
		err := Build(root, []config.DeviceConfig{
			{Kind: config.DeviceKindBasic},
			{Kind: "thermostat"},
			{Kind: config.DeviceKindBasic},
		})
		if !errors.Is(err, ErrUnknownKind) {
			t.Errorf("Build() error = %v, want ErrUnknownKind", err)
		}
		if root.DeviceCount() != 1 {
			t.Errorf("DeviceCount() = %d, want 1", root.DeviceCount())
		}
	})

	t.Run("bad identifier", func(t *testing.T) {
		err := Build(device.NewRootDevice("", ""), []config.DeviceConfig{
			{Kind: config.DeviceKindBasic, UUID: "nope"},
		})
		if !errors.Is(err, device.ErrInvalidIdentifier) {
			t.Errorf("Build() error = %v, want ErrInvalidIdentifier", err)
		}
	})

	t.Run("capacity", func(t *testing.T) {
		devices := make([]config.DeviceConfig, device.MaxDevices+1)
		for i := range devices {
			devices[i].Kind = config.DeviceKindBasic
		}
		err := Build(device.NewRootDevice("", ""), devices)
		if !errors.Is(err, device.ErrCapacityExceeded) {
			t.Errorf("Build() error = %v, want ErrCapacityExceeded", err)
		}
	})
}
