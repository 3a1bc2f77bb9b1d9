package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Limits shared with the device tree. They are duplicated here so that a bad
// configuration is rejected before any device is constructed.
const (
	maxDevices      = 8
	maxTargetLength = 31
	identifierLen   = 36
)

// Device kinds accepted in the devices section.
const (
	DeviceKindBasic              = "basic"
	DeviceKindMessageSensor      = "message_sensor"
	DeviceKindConfigurableSensor = "configurable_sensor"
	DeviceKindToggle             = "toggle"
)

// Config is the root configuration structure for the web device core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging"`
	Devices   []DeviceConfig  `yaml:"devices"`
}

// SiteConfig describes the root device of the tree.
type SiteConfig struct {
	// Target is the first path segment of every URL, e.g. "root".
	Target string `yaml:"target"`

	// Name is the display name of the root device.
	Name string `yaml:"name"`

	// UUID fixes the root identifier. Empty means generate one at startup.
	UUID string `yaml:"uuid"`

	// LoopInterval is how often the device loop runs. Zero disables it.
	LoopInterval time.Duration `yaml:"loop_interval"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// WebSocketConfig contains settings for the live event stream.
type WebSocketConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled     bool                `yaml:"enabled"`
	Broker      MQTTBrokerConfig    `yaml:"broker"`
	Auth        MQTTAuthConfig      `yaml:"auth"`
	QoS         int                 `yaml:"qos"`
	TopicPrefix string              `yaml:"topic_prefix"`
	Reconnect   MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// DeviceConfig declares one child device of the root.
type DeviceConfig struct {
	Kind        string `yaml:"kind"`
	Target      string `yaml:"target"`
	Name        string `yaml:"name"`
	UUID        string `yaml:"uuid"`
	Message     string `yaml:"message"`
	FrameHeight int    `yaml:"frame_height"`
	FrameWidth  int    `yaml:"frame_width"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: WEBDEVICE_SECTION_KEY
// For example: WEBDEVICE_API_PORT, WEBDEVICE_MQTT_HOST
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration, used when no file is present.
func Default() *Config {
	return defaultConfig()
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Target:       "root",
			Name:         "Root Device",
			LoopInterval: time.Second,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Enabled:        true,
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "webdevice",
			},
			QoS:         1,
			TopicPrefix: "webdevice",
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: WEBDEVICE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Site
	if v := os.Getenv("WEBDEVICE_SITE_UUID"); v != "" {
		cfg.Site.UUID = v
	}

	// API
	if v := os.Getenv("WEBDEVICE_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("WEBDEVICE_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	// MQTT
	if v := os.Getenv("WEBDEVICE_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("WEBDEVICE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("WEBDEVICE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("WEBDEVICE_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Every problem is collected so that one run reports all of them.
func (c *Config) Validate() error {
	var errs []string

	// Site validation
	switch {
	case c.Site.Target == "":
		errs = append(errs, "site.target is required")
	case strings.Contains(strings.TrimPrefix(c.Site.Target, "/"), "/"):
		errs = append(errs, "site.target must not contain '/'")
	case len(c.Site.Target) > maxTargetLength:
		errs = append(errs, fmt.Sprintf("site.target must be at most %d characters", maxTargetLength))
	}
	if c.Site.UUID != "" && !looksLikeIdentifier(c.Site.UUID) {
		errs = append(errs, "site.uuid must be a 36 character hyphenated hex identifier")
	}
	if c.Site.LoopInterval < 0 {
		errs = append(errs, "site.loop_interval must not be negative")
	}

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	// MQTT validation
	if c.MQTT.Enabled {
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
		if c.MQTT.TopicPrefix == "" {
			errs = append(errs, "mqtt.topic_prefix is required when mqtt is enabled")
		}
	}

	// InfluxDB validation
	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}

	// Devices validation
	if len(c.Devices) > maxDevices {
		errs = append(errs, fmt.Sprintf("devices: at most %d devices are supported, got %d", maxDevices, len(c.Devices)))
	}
	seen := make(map[string]bool, len(c.Devices))
	for i, d := range c.Devices {
		switch d.Kind {
		case DeviceKindBasic, DeviceKindMessageSensor, DeviceKindConfigurableSensor, DeviceKindToggle:
		default:
			errs = append(errs, fmt.Sprintf("devices[%d].kind %q is not recognised", i, d.Kind))
		}
		target := strings.TrimPrefix(d.Target, "/")
		if strings.Contains(target, "/") {
			errs = append(errs, fmt.Sprintf("devices[%d].target must not contain '/'", i))
		}
		if target != "" {
			if seen[target] {
				errs = append(errs, fmt.Sprintf("devices[%d].target %q is not unique", i, target))
			}
			seen[target] = true
		}
		if d.UUID != "" && !looksLikeIdentifier(d.UUID) {
			errs = append(errs, fmt.Sprintf("devices[%d].uuid must be a 36 character hyphenated hex identifier", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// looksLikeIdentifier is a cheap shape check; the device package performs the
// authoritative validation when the identifier is applied.
func looksLikeIdentifier(s string) bool {
	if len(s) != identifierLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch i {
		case 8, 13, 18, 23:
			if s[i] != '-' {
				return false
			}
		default:
			if !strings.ContainsRune("0123456789abcdefABCDEF", rune(s[i])) {
				return false
			}
		}
	}
	return true
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
