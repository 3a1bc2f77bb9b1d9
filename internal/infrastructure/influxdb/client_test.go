package influxdb_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/webdevice-core/internal/infrastructure/config"
	"github.com/nerrad567/webdevice-core/internal/infrastructure/influxdb"
)

// fakeInflux answers /ping and records the bodies posted to /api/v2/write.
type fakeInflux struct {
	mu     sync.Mutex
	writes []string
}

func (f *fakeInflux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/ping":
		w.WriteHeader(http.StatusNoContent)
	case "/api/v2/write":
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.writes = append(f.writes, string(body))
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeInflux) written() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return strings.Join(f.writes, "\n")
}

func testConfig(url string) config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled:       true,
		URL:           url,
		Token:         "test-token",
		Org:           "webdevice",
		Bucket:        "events",
		BatchSize:     10,
		FlushInterval: 1,
	}
}

func TestConnect_Disabled(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Enabled = false

	_, err := influxdb.Connect(context.Background(), cfg)
	if !errors.Is(err, influxdb.ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnect_Unhealthy(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := influxdb.Connect(context.Background(), testConfig(ts.URL))
	if !errors.Is(err, influxdb.ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestWriteDeviceEvent(t *testing.T) {
	fake := &fakeInflux{}
	ts := httptest.NewServer(fake)
	defer ts.Close()

	client, err := influxdb.Connect(context.Background(), testConfig(ts.URL))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	if !client.IsConnected() {
		t.Fatal("IsConnected() = false after Connect")
	}
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}

	client.WriteDeviceEvent(influxdb.DeviceEvent{
		DeviceID: "6f1c2a3b-0000-4000-8000-000000000001",
		Event:    "state_changed",
		Path:     "/root/lamp",
		Name:     "Lamp",
		Value:    "ON",
	})
	client.Flush()

	deadline := time.Now().Add(3 * time.Second)
	for fake.written() == "" && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}

	got := fake.written()
	for _, want := range []string{
		influxdb.DeviceEventMeasurement,
		"event=state_changed",
		`value="ON"`,
		`name="Lamp"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("line protocol %q missing %q", got, want)
		}
	}
}

func TestWriteAfterClose(t *testing.T) {
	fake := &fakeInflux{}
	ts := httptest.NewServer(fake)
	defer ts.Close()

	client, err := influxdb.Connect(context.Background(), testConfig(ts.URL))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Must not panic or write.
	client.WritePoint("x", nil, map[string]any{"v": 1})
	client.Flush()

	if err := client.HealthCheck(context.Background()); !errors.Is(err, influxdb.ErrNotConnected) {
		t.Errorf("HealthCheck() after Close error = %v, want ErrNotConnected", err)
	}
}

func TestClose_Nil(t *testing.T) {
	var c influxdb.Client
	if err := c.Close(); err != nil {
		t.Errorf("Close() on zero client error = %v", err)
	}
}
