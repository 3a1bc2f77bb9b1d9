package mqtt

import (
	"fmt"
	"strings"
)

// DefaultTopicPrefix is used when no prefix is configured.
const DefaultTopicPrefix = "webdevice"

// Topics builds the topics published by the web device core.
//
//	topics := mqtt.NewTopics("webdevice")
//	topics.DeviceEvent("6f1c...", "state_changed")
//	// Returns: "webdevice/device/6f1c.../state_changed"
type Topics struct {
	prefix string
}

// NewTopics returns a builder for topics under prefix. Surrounding slashes
// are trimmed and an empty prefix selects DefaultTopicPrefix.
func NewTopics(prefix string) Topics {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return Topics{prefix: prefix}
}

// Prefix returns the topic prefix.
func (t Topics) Prefix() string { return t.prefix }

// SystemStatus returns the retained online/offline status topic.
//
// Example: webdevice/system/status
func (t Topics) SystemStatus() string {
	return fmt.Sprintf("%s/system/status", t.prefix)
}

// DeviceEvent returns the topic for one event type of one device.
//
// Example: webdevice/device/6f1c.../display_name_changed
func (t Topics) DeviceEvent(deviceID, eventType string) string {
	return fmt.Sprintf("%s/device/%s/%s", t.prefix, deviceID, eventType)
}

// AllDeviceEvents returns a pattern matching every device event.
//
// Pattern: webdevice/device/+/+
func (t Topics) AllDeviceEvents() string {
	return fmt.Sprintf("%s/device/+/+", t.prefix)
}
