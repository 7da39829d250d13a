// Package mqtt provides the MQTT connection between the Alice bridge and
// the home automation host.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Publishing with QoS and a payload size limit
//   - Subscriptions that are restored after a reconnect
//   - Last Will and Testament on the bridge status topic
//
// # Topics
//
// Every topic lives under the configured prefix (default "graylogic"):
//
//	{prefix}/state/{entity_id}           host -> bridge, retained entity state
//	{prefix}/registry/{kind}/{id}        host -> bridge, retained registry records
//	{prefix}/service/{domain}/{service}  bridge -> host, service calls
//	{prefix}/event/{event_type}          bridge -> host, bus events
//	{prefix}/alice/status                bridge online/offline status
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topics := mqtt.NewTopics(cfg.MQTT.TopicPrefix)
//	err = client.Subscribe(topics.AllStates(), 1, func(topic string, payload []byte) error {
//	    entityID, _ := topics.ParseState(topic)
//	    ...
//	})
package mqtt
