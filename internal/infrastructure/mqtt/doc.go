// Package mqtt publishes device events to an MQTT broker.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Last Will and Testament (LWT) so subscribers see the process go offline
//   - Connection health monitoring
//
// The web device core only publishes; nothing is subscribed.
//
// # Topics
//
// Every topic lives under the configured prefix (default "webdevice"):
//
//	webdevice/system/status                  online/offline, retained
//	webdevice/device/{uuid}/{event_type}     device events, retained
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topic := client.Topics().DeviceEvent(id, "state_changed")
//	err = client.PublishRetained(topic, payload)
package mqtt
