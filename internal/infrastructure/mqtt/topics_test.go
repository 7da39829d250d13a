package mqtt

import "testing"

func TestTopicBuilders(t *testing.T) {
	topics := NewTopics("home/")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"State", topics.State("light.kitchen"), "home/state/light.kitchen"},
		{"Registry", topics.Registry(RegistryArea, "kitchen"), "home/registry/area/kitchen"},
		{"Service", topics.Service("light", "turn_on"), "home/service/light/turn_on"},
		{"Event", topics.Event("alice_device_action"), "home/event/alice_device_action"},
		{"Status", topics.Status(), "home/alice/status"},
		{"AllStates", topics.AllStates(), "home/state/+"},
		{"AllRegistry", topics.AllRegistry(), "home/registry/+/+"},
		{"default prefix", NewTopics("").State("switch.a"), "graylogic/state/switch.a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("topic = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestParseState(t *testing.T) {
	topics := NewTopics("graylogic")
	tests := []struct {
		topic  string
		want   string
		wantOK bool
	}{
		{"graylogic/state/light.kitchen", "light.kitchen", true},
		{"graylogic/state/", "", false},
		{"graylogic/state/a/b", "", false},
		{"other/state/light.kitchen", "", false},
	}
	for _, tt := range tests {
		got, ok := topics.ParseState(tt.topic)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseState(%q) = %q, %v, want %q, %v", tt.topic, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseRegistry(t *testing.T) {
	topics := NewTopics("graylogic")
	tests := []struct {
		topic    string
		wantKind string
		wantID   string
		wantOK   bool
	}{
		{"graylogic/registry/entity/light.kitchen", RegistryEntity, "light.kitchen", true},
		{"graylogic/registry/device/abc", RegistryDevice, "abc", true},
		{"graylogic/registry/area", "", "", false},
		{"graylogic/registry/area/a/b", "", "", false},
		{"graylogic/state/light.kitchen", "", "", false},
	}
	for _, tt := range tests {
		kind, id, ok := topics.ParseRegistry(tt.topic)
		if kind != tt.wantKind || id != tt.wantID || ok != tt.wantOK {
			t.Errorf("ParseRegistry(%q) = %q, %q, %v", tt.topic, kind, id, ok)
		}
	}
}
