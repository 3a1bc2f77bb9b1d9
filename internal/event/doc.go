// Package event carries device events out of the tree.
//
// Nodes report renames, additions and state changes to a Notifier. Bus is
// the Notifier used in production: Notify never blocks the caller, and a
// Run goroutine hands each event to every Sink. Sinks publish to MQTT,
// write to InfluxDB, or broadcast to WebSocket clients.
package event
