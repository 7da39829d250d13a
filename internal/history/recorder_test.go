package history

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-alice/internal/device"
	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

// MockPointWriter records written points.
type MockPointWriter struct {
	mu     sync.Mutex
	points []point
}

type point struct {
	Measurement string
	Tags        map[string]string
	Fields      map[string]any
	Time        time.Time
}

func (w *MockPointWriter) WritePointWithTime(measurement string, tags map[string]string, fields map[string]any, ts time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.points = append(w.points, point{measurement, tags, fields, ts})
}

var testTime = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newTestRecorder() (*Recorder, *MockPointWriter) {
	w := &MockPointWriter{}
	r := New(w, "")
	r.now = func() time.Time { return testTime }
	return r, w
}

func actionEvent(entityID, capType, instance string, value any, code string) host.Event {
	data := map[string]any{
		"entity_id": entityID,
		"capability": map[string]any{
			"type": capType,
			"state": map[string]any{"instance": instance, "value": value},
		},
	}
	if code != "" {
		data["error_code"] = code
	}
	return host.Event{Type: device.EventDeviceAction, Data: data}
}

// ============================================================================
// Actions
// ============================================================================

func TestFireEvent(t *testing.T) {
	tests := []struct {
		name       string
		event      host.Event
		wantTags   map[string]string
		wantFields map[string]any
	}{
		{
			name:  "on_off done",
			event: actionEvent("switch.kettle", "devices.capabilities.on_off", "on", true, ""),
			wantTags: map[string]string{
				"entity_id": "switch.kettle", "domain": "switch", "outcome": "done",
				"capability": "devices.capabilities.on_off", "instance": "on",
			},
			wantFields: map[string]any{"value_bool": true, "count": int64(1)},
		},
		{
			name:  "range failed",
			event: actionEvent("light.kitchen", "devices.capabilities.range", "brightness", 50, "INVALID_VALUE"),
			wantTags: map[string]string{
				"entity_id": "light.kitchen", "domain": "light", "outcome": "error", "error_code": "INVALID_VALUE",
				"capability": "devices.capabilities.range", "instance": "brightness",
			},
			wantFields: map[string]any{"value": float64(50), "count": int64(1)},
		},
		{
			name:  "mode",
			event: actionEvent("climate.hall", "devices.capabilities.mode", "thermostat", "heat", ""),
			wantTags: map[string]string{
				"entity_id": "climate.hall", "domain": "climate", "outcome": "done",
				"capability": "devices.capabilities.mode", "instance": "thermostat",
			},
			wantFields: map[string]any{"value_text": "heat", "count": int64(1)},
		},
		{
			name: "color as json",
			event: actionEvent("light.strip", "devices.capabilities.color_setting", "hsv",
				map[string]any{"h": 255, "s": 50, "v": 100}, ""),
			wantTags: map[string]string{
				"entity_id": "light.strip", "domain": "light", "outcome": "done",
				"capability": "devices.capabilities.color_setting", "instance": "hsv",
			},
			wantFields: map[string]any{"value_text": `{"h":255,"s":50,"v":100}`, "count": int64(1)},
		},
		{
			name: "unreachable",
			event: host.Event{Type: device.EventDeviceAction, Data: map[string]any{
				"entity_id": "switch.gone", "error_code": "DEVICE_UNREACHABLE",
			}},
			wantTags: map[string]string{
				"entity_id": "switch.gone", "domain": "switch", "outcome": "error", "error_code": "DEVICE_UNREACHABLE",
			},
			wantFields: map[string]any{"count": int64(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, w := newTestRecorder()
			if err := r.FireEvent(context.Background(), tt.event); err != nil {
				t.Fatalf("FireEvent() error = %v", err)
			}
			if len(w.points) != 1 {
				t.Fatalf("points = %d, want 1", len(w.points))
			}
			p := w.points[0]
			if p.Measurement != device.EventDeviceAction {
				t.Errorf("Measurement = %q, want %q", p.Measurement, device.EventDeviceAction)
			}
			if !reflect.DeepEqual(p.Tags, tt.wantTags) {
				t.Errorf("Tags = %v, want %v", p.Tags, tt.wantTags)
			}
			if !reflect.DeepEqual(p.Fields, tt.wantFields) {
				t.Errorf("Fields = %v, want %v", p.Fields, tt.wantFields)
			}
			if !p.Time.Equal(testTime) {
				t.Errorf("Time = %v, want %v", p.Time, testTime)
			}
		})
	}
}

func TestFireEventIgnored(t *testing.T) {
	r, w := newTestRecorder()
	events := []host.Event{
		{Type: "state_changed", Data: map[string]any{"entity_id": "switch.a"}},
		{Type: device.EventDeviceAction, Data: map[string]any{}},
	}
	for _, ev := range events {
		if err := r.FireEvent(context.Background(), ev); err != nil {
			t.Errorf("FireEvent(%s) error = %v", ev.Type, err)
		}
	}
	if len(w.points) != 0 {
		t.Errorf("points = %d, want 0", len(w.points))
	}
}

func TestFireEventCustomMeasurement(t *testing.T) {
	w := &MockPointWriter{}
	r := New(w, "voice_actions")
	fired := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ev := actionEvent("switch.a", "devices.capabilities.on_off", "on", false, "")
	ev.TimeFired = fired

	if err := r.FireEvent(context.Background(), ev); err != nil {
		t.Fatalf("FireEvent() error = %v", err)
	}
	if got := w.points[0].Measurement; got != "voice_actions" {
		t.Errorf("Measurement = %q, want %q", got, "voice_actions")
	}
	if got := w.points[0].Time; !got.Equal(fired) {
		t.Errorf("Time = %v, want %v", got, fired)
	}
}

// ============================================================================
// Properties
// ============================================================================

func TestRecordStates(t *testing.T) {
	r, w := newTestRecorder()
	r.SetPropertyMeasurement("sensors")

	states := []schema.DeviceState{
		{
			ID: "sensor.hall",
			Properties: []schema.PropertyInstanceState{
				{Type: schema.PropertyFloat, State: schema.PropertyInstanceStateValue{Instance: schema.InstanceTemperature, Value: 21.5}},
				{Type: schema.PropertyEvent, State: schema.PropertyInstanceStateValue{Instance: schema.InstanceMotion, Value: "detected"}},
			},
		},
		{ID: "sensor.gone", ErrorCode: schema.CodeDeviceUnreachable},
		{
			ID: "climate.hall",
			Properties: []schema.PropertyInstanceState{
				{Type: schema.PropertyFloat, State: schema.PropertyInstanceStateValue{Instance: schema.InstanceHumidity, Value: nil}},
			},
		},
	}
	r.RecordStates(context.Background(), states)

	want := []point{{
		Measurement: "sensors",
		Tags:        map[string]string{"entity_id": "sensor.hall", "domain": "sensor", "instance": "temperature"},
		Fields: map[string]any{"value": 21.5},
		Time:   testTime,
	}}
	if !reflect.DeepEqual(w.points, want) {
		t.Errorf("points = %+v, want %+v", w.points, want)
	}
}
