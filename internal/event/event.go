package event

import "time"

// Type names what happened.
type Type string

// Event types.
const (
	TypeDeviceAdded        Type = "device_added"
	TypeDisplayNameChanged Type = "display_name_changed"
	TypeStateChanged       Type = "state_changed"
)

// Event is a change to a node of the tree.
type Event struct {
	Type      Type      `json:"type"`
	DeviceID  string    `json:"device_id"`
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Value     string    `json:"value,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// New returns an event stamped with the current UTC time.
func New(typ Type, deviceID, path, name, value string) Event {
	return Event{
		Type:      typ,
		DeviceID:  deviceID,
		Path:      path,
		Name:      name,
		Value:     value,
		Timestamp: time.Now().UTC(),
	}
}
