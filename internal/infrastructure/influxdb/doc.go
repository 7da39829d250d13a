// Package influxdb provides InfluxDB connectivity for the Alice bridge.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, batched point writes and health monitoring. The history
// package builds on it to record device actions and queried sensor values.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WritePoint("alice_device_action",
//	    map[string]string{"entity_id": "light.kitchen"},
//	    map[string]any{"value": 1.0})
//
// # Error Handling
//
// Writes are non-blocking; batch failures are delivered to the SetOnError
// callback wrapped in ErrWriteFailed. Connection and health check errors
// are returned directly.
package influxdb
