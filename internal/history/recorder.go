package history

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-alice/internal/device"
	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

// DefaultPropertyMeasurement is the measurement of queried float
// property values.
const DefaultPropertyMeasurement = "alice_property"

// Outcome tag values.
const (
	OutcomeDone  = "done"
	OutcomeError = "error"
)

// PointWriter writes one time series point. Implemented by
// influxdb.Client.
type PointWriter interface {
	WritePointWithTime(measurement string, tags map[string]string, fields map[string]any, timestamp time.Time)
}

// Logger defines the logging interface used by the recorder.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Recorder turns device activity into points.
//
// Thread Safety: all methods are safe for concurrent use.
type Recorder struct {
	writer              PointWriter
	actionMeasurement   string
	propertyMeasurement string

	loggerMu sync.RWMutex
	logger   Logger

	now func() time.Time
}

// New creates a recorder writing actions to actionMeasurement. An empty
// measurement uses the device action event type.
func New(writer PointWriter, actionMeasurement string) *Recorder {
	if actionMeasurement == "" {
		actionMeasurement = device.EventDeviceAction
	}
	return &Recorder{
		writer:              writer,
		actionMeasurement:   actionMeasurement,
		propertyMeasurement: DefaultPropertyMeasurement,
		logger:              noopLogger{},
		now:                 time.Now,
	}
}

// SetLogger sets the logger for the recorder.
func (r *Recorder) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	r.loggerMu.Lock()
	r.logger = logger
	r.loggerMu.Unlock()
}

func (r *Recorder) log() Logger {
	r.loggerMu.RLock()
	defer r.loggerMu.RUnlock()
	return r.logger
}

// SetPropertyMeasurement changes the measurement of property values.
func (r *Recorder) SetPropertyMeasurement(name string) {
	if name != "" {
		r.propertyMeasurement = name
	}
}

// ============================================================================
// Actions
// ============================================================================

// FireEvent implements host.EventBus. Events other than device actions
// are ignored.
func (r *Recorder) FireEvent(_ context.Context, event host.Event) error {
	if event.Type != device.EventDeviceAction {
		return nil
	}
	entityID, _ := event.Data["entity_id"].(string)
	if entityID == "" {
		r.log().Debug("device action event without entity_id")
		return nil
	}

	ts := event.TimeFired
	if ts.IsZero() {
		ts = r.now()
	}

	tags := map[string]string{
		"entity_id": entityID,
		"domain":    domainOf(entityID),
		"outcome":   OutcomeDone,
	}
	fields := map[string]any{}

	if code, _ := event.Data["error_code"].(string); code != "" {
		tags["outcome"] = OutcomeError
		tags["error_code"] = code
	}

	if capability, ok := event.Data["capability"].(map[string]any); ok {
		if t, _ := capability["type"].(string); t != "" {
			tags["capability"] = t
		}
		if state, ok := capability["state"].(map[string]any); ok {
			if instance, _ := state["instance"].(string); instance != "" {
				tags["instance"] = instance
			}
			valueFields(fields, state["value"])
		}
	}
	fields["count"] = int64(1)

	r.writer.WritePointWithTime(r.actionMeasurement, tags, fields, ts)
	return nil
}

// ============================================================================
// Properties
// ============================================================================

// RecordStates writes every float property of states. Devices reported
// with an error code are skipped.
func (r *Recorder) RecordStates(_ context.Context, states []schema.DeviceState) {
	ts := r.now()
	for _, st := range states {
		if st.ErrorCode != "" {
			continue
		}
		for _, p := range st.Properties {
			if p.Type != schema.PropertyFloat {
				continue
			}
			v, ok := host.ToFloat(p.State.Value)
			if !ok {
				continue
			}
			r.writer.WritePointWithTime(r.propertyMeasurement, map[string]string{
				"entity_id": st.ID,
				"domain":    domainOf(st.ID),
				"instance":  string(p.State.Instance),
			}, map[string]any{"value": v}, ts)
		}
	}
}

// valueFields stores v under a field key per type, since a field keeps
// one type within a measurement.
func valueFields(fields map[string]any, v any) {
	switch val := v.(type) {
	case nil:
	case bool:
		fields["value_bool"] = val
	case string:
		fields["value_text"] = val
	default:
		if f, ok := host.ToFloat(val); ok {
			fields["value"] = f
			return
		}
		if raw, err := json.Marshal(val); err == nil {
			fields["value_text"] = string(raw)
		}
	}
}

func domainOf(entityID string) string {
	domain, _, _ := strings.Cut(entityID, ".")
	return domain
}
