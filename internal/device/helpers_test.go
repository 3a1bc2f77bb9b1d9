package device

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/nerrad567/webdevice-core/internal/event"
	"github.com/nerrad567/webdevice-core/internal/render"
	"github.com/nerrad567/webdevice-core/internal/web"
)

// recordingDispatcher records every registration.
type recordingDispatcher struct {
	port     int
	paths    []string
	handlers map[string]web.HandlerFunc
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{port: 8080, handlers: make(map[string]web.HandlerFunc)}
}

func (d *recordingDispatcher) On(path string, h web.HandlerFunc) {
	d.paths = append(d.paths, path)
	d.handlers[path] = h
}

func (d *recordingDispatcher) LocalPort() int { return d.port }

// count returns how many times path was registered.
func (d *recordingDispatcher) count(path string) int {
	n := 0
	for _, p := range d.paths {
		if p == path {
			n++
		}
	}
	return n
}

// serve runs the handler registered for path against target and returns
// the recorded response.
func (d *recordingDispatcher) serve(t *testing.T, path, target string) *httptest.ResponseRecorder {
	t.Helper()
	h, ok := d.handlers[path]
	if !ok {
		t.Fatalf("no handler registered for %q (have %v)", path, d.paths)
	}
	w := httptest.NewRecorder()
	h(web.NewContext(w, httptest.NewRequest(http.MethodGet, target, nil)))
	return w
}

// recordingNotifier keeps every event.
type recordingNotifier struct {
	mu     sync.Mutex
	events []event.Event
}

func (n *recordingNotifier) Notify(e event.Event) {
	n.mu.Lock()
	n.events = append(n.events, e)
	n.mu.Unlock()
}

func (n *recordingNotifier) ofType(typ event.Type) []event.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []event.Event
	for _, e := range n.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// recordingLogger counts warnings.
type recordingLogger struct {
	warns []string
}

func (l *recordingLogger) Debug(string, ...any)     {}
func (l *recordingLogger) Info(string, ...any)      {}
func (l *recordingLogger) Warn(msg string, _ ...any) { l.warns = append(l.warns, msg) }
func (l *recordingLogger) Error(string, ...any)     {}

// countingDevice counts Loop calls and writes fixed content.
type countingDevice struct {
	Device
	loops   int
	content string
}

var kindCounting = NewKind("Counting", KindDevice)

func newCountingDevice(target string, mode PresentMode) *countingDevice {
	d := &countingDevice{content: "<p>counting</p>"}
	d.Init(d, kindCounting, target, "Counting")
	d.SetPresentation(Presentation{Mode: mode, Frame: "frame", FrameHeight: 10, FrameWidth: 20})
	return d
}

func (d *countingDevice) Loop() { d.loops++ }

func (d *countingDevice) Content(b *render.Buffer) { b.WriteString(d.content) }
