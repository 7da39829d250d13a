// Package mqtthost connects the Alice bridge to the home automation host
// over MQTT.
//
// The host publishes retained entity states and registry records; the
// Bridge ingests them into a Store. In the other direction the Bridge
// implements host.ServiceCaller and host.EventBus by publishing service
// calls and events:
//
//	host  --{prefix}/state/{entity_id}-----------> Bridge -> Store
//	host  --{prefix}/registry/{kind}/{id}--------> Bridge -> Store
//	host <--{prefix}/service/{domain}/{service}--- Bridge <- device actions
//	host <--{prefix}/event/{event_type}----------- Bridge <- action events
//
// An empty state payload removes the entity. Repeated identical state
// payloads, such as retained messages re-delivered after a reconnect, are
// not written again.
//
// Thread Safety: all methods are safe for concurrent use.
package mqtthost
