package mqtt

import "strings"

// DefaultTopicPrefix is used when no prefix is configured.
const DefaultTopicPrefix = "graylogic"

// Registry kinds published under {prefix}/registry/{kind}/{id}.
const (
	RegistryEntity = "entity"
	RegistryDevice = "device"
	RegistryArea   = "area"
)

// Topics builds and parses the bridge topics under one prefix.
//
//	topics := mqtt.NewTopics("graylogic")
//	topics.State("light.kitchen") // "graylogic/state/light.kitchen"
type Topics struct {
	prefix string
}

// NewTopics creates topic builders for prefix. An empty prefix uses
// DefaultTopicPrefix; a trailing slash is dropped.
func NewTopics(prefix string) Topics {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return Topics{prefix: prefix}
}

// Prefix returns the topic prefix.
func (t Topics) Prefix() string {
	return t.prefix
}

// State returns the state topic of an entity.
func (t Topics) State(entityID string) string {
	return t.prefix + "/state/" + entityID
}

// Registry returns the topic of a registry record.
func (t Topics) Registry(kind, id string) string {
	return t.prefix + "/registry/" + kind + "/" + id
}

// Service returns the topic a service call is published on.
func (t Topics) Service(domain, service string) string {
	return t.prefix + "/service/" + domain + "/" + service
}

// Event returns the topic a bus event is published on.
func (t Topics) Event(eventType string) string {
	return t.prefix + "/event/" + eventType
}

// Status returns the bridge status topic, also used for the LWT.
func (t Topics) Status() string {
	return t.prefix + "/alice/status"
}

// AllStates matches every entity state topic.
func (t Topics) AllStates() string {
	return t.prefix + "/state/+"
}

// AllRegistry matches every registry topic.
func (t Topics) AllRegistry() string {
	return t.prefix + "/registry/+/+"
}

// ParseState returns the entity id of a state topic.
func (t Topics) ParseState(topic string) (string, bool) {
	id, ok := strings.CutPrefix(topic, t.prefix+"/state/")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

// ParseRegistry returns the kind and id of a registry topic.
func (t Topics) ParseRegistry(topic string) (kind, id string, ok bool) {
	rest, found := strings.CutPrefix(topic, t.prefix+"/registry/")
	if !found {
		return "", "", false
	}
	kind, id, found = strings.Cut(rest, "/")
	if !found || kind == "" || id == "" || strings.Contains(id, "/") {
		return "", "", false
	}
	return kind, id, true
}
