// Package influxdb records device events in InfluxDB.
//
// It wraps the influxdb-client-go v2 library: a ping on connect, a
// non-blocking batched write API, and asynchronous error delivery.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteDeviceEvent(influxdb.DeviceEvent{
//	    DeviceID: id,
//	    Event:    "state_changed",
//	    Path:     "/root/lamp",
//	    Value:    "ON",
//	})
//
// Writes are dropped silently while the client is not connected.
package influxdb
