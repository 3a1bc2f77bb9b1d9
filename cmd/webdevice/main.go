// Web Device Core
//
// This is the main entry point for the web device core. It builds the device
// tree from configuration, serves it over HTTP and fans device events out to
// the browser, MQTT and InfluxDB.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nerrad567/webdevice-core/internal/builtin"
	"github.com/nerrad567/webdevice-core/internal/device"
	"github.com/nerrad567/webdevice-core/internal/event"
	"github.com/nerrad567/webdevice-core/internal/infrastructure/config"
	"github.com/nerrad567/webdevice-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/webdevice-core/internal/infrastructure/logging"
	"github.com/nerrad567/webdevice-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/webdevice-core/internal/web"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting web device core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := loadConfig(getConfigPath(), log)
	if err != nil {
		return err
	}

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Build the device tree
	root := device.NewRootDevice(cfg.Site.Target, cfg.Site.Name)
	root.SetLogger(log.With("component", "device"))
	if cfg.Site.UUID != "" {
		if err := root.SetUUID(cfg.Site.UUID); err != nil {
			return fmt.Errorf("site uuid: %w", err)
		}
	}

	bus := event.NewBus(event.DefaultBufferSize)
	bus.SetLogger(log.With("component", "events"))
	root.SetNotifier(bus)

	if err := builtin.Build(root, cfg.Devices); err != nil {
		return fmt.Errorf("building device tree: %w", err)
	}
	log.Info("device tree built", "root", root.Path(), "devices", root.DeviceCount())

	// Event sinks
	mqttClient, err := connectMQTT(cfg, log)
	if err != nil {
		return err
	}
	if mqttClient != nil {
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		bus.AddSink(event.NewMQTTSink(mqttClient, mqttClient.Topics()))
	}

	influxClient, err := connectInfluxDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	if influxClient != nil {
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		bus.AddSink(event.NewInfluxSink(influxClient))
	}

	// Web server
	srv, err := web.New(web.Deps{
		Config:  cfg.API,
		WS:      cfg.WebSocket,
		Logger:  log.With("component", "web"),
		Version: version,
		Tree:    func() any { return root.Describe() },
	})
	if err != nil {
		return fmt.Errorf("creating web server: %w", err)
	}
	if hub := srv.Hub(); hub != nil {
		bus.AddSink(hub)
	}

	busCtx, stopBus := context.WithCancel(context.Background())
	busDone := make(chan struct{})
	go func() {
		defer close(busDone)
		bus.Run(busCtx)
	}()
	defer func() {
		stopBus()
		<-busDone
	}()

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("starting web server: %w", err)
	}
	defer func() {
		if closeErr := srv.Close(); closeErr != nil {
			log.Error("error closing web server", "error", closeErr)
		}
	}()

	srv.Do(func() { root.Setup(srv) })
	logTree(log, root.Describe())

	if err := healthCheck(ctx, srv, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("initialisation complete, waiting for shutdown signal",
		"url", root.RootLocation(cfg.API.Host))

	runLoop(ctx, srv, root, cfg.Site.LoopInterval)

	log.Info("shutdown signal received, cleaning up")
	return nil
}

// loadConfig reads the configuration file. A missing file selects the
// built-in defaults; any other problem is an error.
func loadConfig(path string, log *logging.Logger) (*config.Config, error) {
	cfg, err := config.Load(path)
	switch {
	case err == nil:
		log.Info("configuration loaded", "path", path)
		return cfg, nil
	case errors.Is(err, fs.ErrNotExist):
		log.Warn("configuration file not found, using defaults", "path", path)
		return config.Default(), nil
	default:
		return nil, fmt.Errorf("loading config: %w", err)
	}
}

// getConfigPath returns the configuration file path.
// Uses WEBDEVICE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("WEBDEVICE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

func connectMQTT(cfg *config.Config, log *logging.Logger) (*mqtt.Client, error) {
	if !cfg.MQTT.Enabled {
		log.Info("MQTT disabled")
		return nil, nil
	}
	client, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return nil, fmt.Errorf("connecting to MQTT: %w", err)
	}
	client.SetLogger(log.With("component", "mqtt"))
	client.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	client.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
		"prefix", client.Topics().Prefix(),
	)
	return client, nil
}

func connectInfluxDB(ctx context.Context, cfg *config.Config, log *logging.Logger) (*influxdb.Client, error) {
	if !cfg.InfluxDB.Enabled {
		log.Info("InfluxDB disabled")
		return nil, nil
	}
	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
	if err != nil {
		return nil, fmt.Errorf("connecting to InfluxDB: %w", err)
	}
	client.SetOnError(func(err error) {
		log.Error("InfluxDB write error", "error", err)
	})
	log.Info("InfluxDB connected",
		"url", cfg.InfluxDB.URL,
		"org", cfg.InfluxDB.Org,
		"bucket", cfg.InfluxDB.Bucket,
	)
	return client, nil
}

// healthCheck verifies the server and every enabled connection.
// mqttClient and influxClient may be nil when disabled.
func healthCheck(ctx context.Context, srv *web.Server, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := srv.HealthCheck(ctx); err != nil {
		return fmt.Errorf("web: %w", err)
	}
	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}
	return nil
}

// runLoop runs the device loop every interval until ctx is done. The loop
// shares the server's handler lock, so it never overlaps a request. A zero
// interval only waits.
func runLoop(ctx context.Context, srv *web.Server, root *device.RootDevice, interval time.Duration) {
	if interval <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			srv.Do(root.Loop)
		}
	}
}

// logTree writes one line per device, the startup summary of the tree.
func logTree(log *logging.Logger, desc device.Description) {
	log.Info("root device",
		"name", desc.DisplayName,
		"path", desc.Path,
		"uuid", desc.UUID,
		"services", len(desc.Services),
	)
	for _, d := range desc.Devices {
		log.Info("device",
			"kind", d.Kind,
			"name", d.DisplayName,
			"path", d.Path,
			"uuid", d.UUID,
			"presentation", d.Presentation,
			"services", len(d.Services),
		)
	}
}
