package device

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nerrad567/webdevice-core/internal/web"
)

func TestAddServiceDefaultsTarget(t *testing.T) {
	d := NewDevice("dev", "Dev")
	for i := 0; i < 3; i++ {
		target := ""
		if i == 1 {
			target = "named"
		}
		if err := d.AddService(NewService(target, "")); err != nil {
			t.Fatalf("AddService(%d) error = %v", i, err)
		}
	}

	want := []string{"service0", "named", "service2"}
	for i, w := range want {
		s, ok := d.ServiceAt(i)
		if !ok {
			t.Fatalf("ServiceAt(%d) missing", i)
		}
		if got := s.TreeNode().Target(); got != w {
			t.Errorf("ServiceAt(%d).Target() = %q, want %q", i, got, w)
		}
		if s.TreeNode().Parent() != Object(d) {
			t.Errorf("ServiceAt(%d).Parent() is not the device", i)
		}
	}
	if _, ok := d.ServiceAt(3); ok {
		t.Error("ServiceAt(3) found a service")
	}
	if _, ok := d.ServiceAt(-1); ok {
		t.Error("ServiceAt(-1) found a service")
	}
}

func TestAddServiceCapacity(t *testing.T) {
	root := NewRootDevice("", "")
	log := &recordingLogger{}
	root.SetLogger(log)
	d := NewDevice("dev", "")
	if err := root.AddDevice(d); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < MaxServices; i++ {
		if err := d.AddService(NewService(fmt.Sprintf("s%d", i), "")); err != nil {
			t.Fatalf("AddService(%d) error = %v", i, err)
		}
	}

	extra := NewService("extra", "")
	err := d.AddService(extra)
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("AddService() on a full device error = %v, want ErrCapacityExceeded", err)
	}
	if d.ServiceCount() != MaxServices {
		t.Errorf("ServiceCount() = %d, want %d", d.ServiceCount(), MaxServices)
	}
	if extra.Parent() != nil {
		t.Error("dropped service has a parent")
	}
	if len(log.warns) != 1 {
		t.Errorf("warnings = %v, want one", log.warns)
	}
}

func TestAddServiceRejects(t *testing.T) {
	d := NewDevice("dev", "")
	if err := d.AddService(nil); !errors.Is(err, ErrNilNode) {
		t.Errorf("AddService(nil) error = %v, want ErrNilNode", err)
	}

	s := NewService("s", "")
	if err := d.AddService(s); err != nil {
		t.Fatal(err)
	}
	other := NewDevice("other", "")
	if err := other.AddService(s); !errors.Is(err, ErrAlreadyAttached) {
		t.Errorf("AddService(attached) error = %v, want ErrAlreadyAttached", err)
	}
	if other.ServiceCount() != 0 {
		t.Errorf("ServiceCount() = %d, want 0", other.ServiceCount())
	}
}

func TestZeroValueNodes(t *testing.T) {
	root := NewRootDevice("root", "")
	svc := &Service{}
	if err := root.AddService(svc); err != nil {
		t.Fatalf("AddService(zero service) error = %v", err)
	}
	if svc.Kind() != KindService || svc.Target() != "service0" {
		t.Errorf("zero service = kind %v, target %q", svc.Kind(), svc.Target())
	}

	dev := &Device{}
	inner := NewService("s", "")
	if err := dev.AddService(inner); err != nil {
		t.Fatalf("AddService() on zero device error = %v", err)
	}
	if inner.Parent() != Object(dev) {
		t.Errorf("Parent() = %v, want the zero device", inner.Parent())
	}
	if err := root.AddDevice(dev); err != nil {
		t.Fatalf("AddDevice(zero device) error = %v", err)
	}
	if !IsKind(dev, KindDevice) || dev.UUID() == "" {
		t.Errorf("zero device = kind %v, uuid %q", dev.Kind(), dev.UUID())
	}

	d := newRecordingDispatcher()
	root.Setup(d)
	for _, path := range []string{"/root/service0", "/root/device0", "/root/device0/s"} {
		if d.count(path) != 1 {
			t.Errorf("%s registered %d times, want 1", path, d.count(path))
		}
	}
}

func TestServiceByKind(t *testing.T) {
	d := NewDevice("dev", "")
	plain := NewService("plain", "")
	get := NewGetConfiguration()
	for _, s := range []ServiceNode{plain, get} {
		if err := d.AddService(s); err != nil {
			t.Fatal(err)
		}
	}

	if s, ok := d.ServiceByKind(KindGetConfiguration); !ok || s != ServiceNode(get) {
		t.Errorf("ServiceByKind(GetConfiguration) = %v, %v", s, ok)
	}
	if s, ok := d.ServiceByKind(KindService); !ok || s != ServiceNode(plain) {
		t.Errorf("ServiceByKind(Service) = %v, %v, want first service", s, ok)
	}
	if _, ok := d.ServiceByKind(KindSetConfiguration); ok {
		t.Error("ServiceByKind(SetConfiguration) found a service")
	}
}

func TestDeviceSetupRegistersPageThenServices(t *testing.T) {
	root, _, _ := threeLevelTree(t)
	d := newRecordingDispatcher()
	root.Setup(d)

	want := []string{"/styles.css", "/", "/root", "/root/lamp", "/root/lamp/toggle"}
	if strings.Join(d.paths, " ") != strings.Join(want, " ") {
		t.Errorf("registered %v, want %v", d.paths, want)
	}
}

func TestDeviceDisplay(t *testing.T) {
	root, dev, svc := threeLevelTree(t)
	d := newRecordingDispatcher()
	root.Setup(d)

	w := d.serve(t, dev.Path(), dev.Path())
	if w.Code != 200 {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		"<title>Lamp</title>",
		`href="` + svc.Path() + `"`,
		">Toggle</button>",
		"</body></html>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("device page missing %q:\n%s", want, body)
		}
	}
}

func TestServiceHandlerSetAfterSetup(t *testing.T) {
	root, _, svc := threeLevelTree(t)
	d := newRecordingDispatcher()
	root.Setup(d)

	// No handler yet: nothing is sent.
	w := d.serve(t, svc.Path(), svc.Path())
	if w.Body.Len() != 0 {
		t.Errorf("body without handler = %q", w.Body.String())
	}

	svc.SetHandler(func(c *web.Context) { c.SendString(200, "text/plain", "handled") })
	w = d.serve(t, svc.Path(), svc.Path())
	if w.Body.String() != "handled" {
		t.Errorf("body = %q, want handled", w.Body.String())
	}
}

func TestServiceFormRegistered(t *testing.T) {
	s := NewService("svc", "")
	s.SetFormHandler(func(c *web.Context) { c.SendString(200, "text/plain", "form") })
	dev := NewDevice("dev", "")
	if err := dev.AddService(s); err != nil {
		t.Fatal(err)
	}
	root := NewRootDevice("", "")
	if err := root.AddDevice(dev); err != nil {
		t.Fatal(err)
	}
	d := newRecordingDispatcher()
	root.Setup(d)

	if !s.HasForm() {
		t.Error("HasForm() = false")
	}
	if s.FormPath() != "/root/dev/svc/configForm" {
		t.Errorf("FormPath() = %q", s.FormPath())
	}
	if w := d.serve(t, s.FormPath(), s.FormPath()); w.Body.String() != "form" {
		t.Errorf("form body = %q", w.Body.String())
	}
}

func TestUnwiredServiceSetupRegistersTwice(t *testing.T) {
	s := NewService("svc", "")
	d := newRecordingDispatcher()
	s.Setup(d)
	s.Setup(d)
	if n := d.count("/svc"); n != 2 {
		t.Errorf("registrations = %d, want 2", n)
	}
}
