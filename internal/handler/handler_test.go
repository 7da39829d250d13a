package handler

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/nerrad567/gray-logic-alice/internal/device"
	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

const testRequestID = "5ca6622d-97b5-465c-a494-fd9c2f9e6e5a"

// MockLogger records log messages per level.
type MockLogger struct {
	mu       sync.Mutex
	messages map[string][]string
}

func (l *MockLogger) add(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.messages == nil {
		l.messages = make(map[string][]string)
	}
	l.messages[level] = append(l.messages[level], msg)
}

func (l *MockLogger) Debug(msg string, _ ...any) { l.add("debug", msg) }
func (l *MockLogger) Info(msg string, _ ...any)  { l.add("info", msg) }
func (l *MockLogger) Warn(msg string, _ ...any)  { l.add("warn", msg) }
func (l *MockLogger) Error(msg string, _ ...any) { l.add("error", msg) }

// Messages returns the messages logged at level.
func (l *MockLogger) Messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.messages[level]...)
}

func newTestHandler(t *testing.T, cfg config.AliceConfig) (*Handler, *host.Memory, *MockLogger) {
	t.Helper()
	mem := host.NewMemory()
	logger := &MockLogger{}
	resolver := device.NewResolver(mem, cfg, nil)
	resolver.SetLogger(logger)
	resolver.SetErrorCodeFunc(RulesErrorCodeFunc(cfg, mem))
	h := New(resolver)
	h.SetLogger(logger)
	return h, mem, logger
}

func setState(t *testing.T, mem *host.Memory, entityID, state string) {
	t.Helper()
	if err := mem.SetState(entityID, state, nil); err != nil {
		t.Fatalf("SetState(%s) error = %v", entityID, err)
	}
}

func exposeAll() config.FilterConfig {
	return config.FilterConfig{IncludeDomains: []string{"switch", "sensor", "light"}}
}

// ============================================================================
// HandleRequest
// ============================================================================

func TestHandleRequest(t *testing.T) {
	h, _, logger := newTestHandler(t, config.AliceConfig{})
	h.Register("error", func(context.Context, Request) (any, error) {
		return nil, schema.NewAPIError(schema.CodeInvalidAction, "foo")
	})
	h.Register("exception", func(context.Context, Request) (any, error) {
		return nil, errors.New("boooo")
	})
	h.Register("none", func(context.Context, Request) (any, error) {
		return nil, nil
	})

	tests := []struct {
		action  string
		payload any
		logged  string
	}{
		{"missing", schema.ErrorPayload{ErrorCode: schema.CodeInternalError}, "Unexpected action 'missing'"},
		{"error", schema.ErrorPayload{ErrorCode: schema.CodeInvalidAction}, "foo (INVALID_ACTION)"},
		{"exception", schema.ErrorPayload{ErrorCode: schema.CodeInternalError}, "Unexpected exception"},
		{"none", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			before := len(logger.Messages("error"))
			resp := h.HandleRequest(context.Background(), tt.action, Request{RequestID: testRequestID})

			if resp.RequestID != testRequestID {
				t.Errorf("RequestID = %q, want %q", resp.RequestID, testRequestID)
			}
			if !reflect.DeepEqual(resp.Payload, tt.payload) {
				t.Errorf("Payload = %#v, want %#v", resp.Payload, tt.payload)
			}

			errs := logger.Messages("error")[before:]
			switch {
			case tt.logged == "" && len(errs) != 0:
				t.Errorf("errors = %q, want none", errs)
			case tt.logged != "" && (len(errs) != 1 || errs[0] != tt.logged):
				t.Errorf("errors = %q, want [%q]", errs, tt.logged)
			}
		})
	}
}

func TestActions(t *testing.T) {
	h, _, _ := newTestHandler(t, config.AliceConfig{})
	want := []string{ActionDevices, ActionDeviceAction, ActionDeviceQuery, ActionUnlink}
	if got := h.Actions(); !reflect.DeepEqual(got, want) {
		t.Errorf("Actions() = %v, want %v", got, want)
	}
}

func TestHandleRequestInvalidBody(t *testing.T) {
	h, _, logger := newTestHandler(t, config.AliceConfig{})

	for _, action := range []string{ActionDeviceQuery, ActionDeviceAction} {
		resp := h.HandleRequest(context.Background(), action, Request{RequestID: testRequestID, Body: []byte("{")})
		want := schema.ErrorPayload{ErrorCode: schema.CodeInternalError}
		if !reflect.DeepEqual(resp.Payload, want) {
			t.Errorf("%s Payload = %#v, want %#v", action, resp.Payload, want)
		}
	}
	if errs := logger.Messages("error"); len(errs) != 2 || errs[0] != "Unexpected exception" {
		t.Errorf("errors = %q, want two unexpected exceptions", errs)
	}
}

func TestUnlink(t *testing.T) {
	h, _, _ := newTestHandler(t, config.AliceConfig{})
	resp := h.HandleRequest(context.Background(), ActionUnlink, Request{RequestID: testRequestID, UserID: "foo"})
	if resp.Payload != nil {
		t.Errorf("Payload = %#v, want nil", resp.Payload)
	}
}

// ============================================================================
// Devices and query
// ============================================================================

func TestQuery(t *testing.T) {
	cfg := config.AliceConfig{Filter: config.FilterConfig{
		IncludeDomains:  []string{"switch", "sensor"},
		ExcludeEntities: []string{"switch.not_expose"},
	}}
	h, mem, logger := newTestHandler(t, cfg)
	setState(t, mem, "switch.test_1", "off")
	setState(t, mem, "switch.not_expose", "on")
	setState(t, mem, "sensor.test", "33")

	body := []byte(`{"devices": [{"id": "switch.test_1"}, {"id": "switch.not_expose"}, {"id": "invalid.foo"}]}`)
	states, err := h.Query(context.Background(), Request{RequestID: testRequestID, UserID: PingUserID, Body: body})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	onOff := func(id string, on bool) schema.DeviceState {
		return schema.DeviceState{
			ID: id,
			Capabilities: []schema.CapabilityInstanceState{{
				Type: schema.CapabilityOnOff,
				State: schema.CapabilityInstanceStateValue{Instance: schema.InstanceOn, Value: on},
			}},
			Properties: []schema.PropertyInstanceState{},
		}
	}
	want := []schema.DeviceState{
		onOff("switch.test_1", false),
		onOff("switch.not_expose", true),
		{ID: "invalid.foo", ErrorCode: schema.CodeDeviceUnreachable},
	}
	if !reflect.DeepEqual(states.Devices, want) {
		t.Errorf("Devices = %+v, want %+v", states.Devices, want)
	}

	wantWarn := []string{
		"State requested for unexposed entity switch.not_expose. Please either expose the entity via filters in " +
			"component configuration or delete the device from Yandex.",
		"State requested for unexposed entity invalid.foo. Please either expose the entity via filters in " +
			"component configuration or delete the device from Yandex.",
	}
	if got := logger.Messages("warn"); !reflect.DeepEqual(got, wantWarn) {
		t.Errorf("warnings = %q, want %q", got, wantWarn)
	}
}

func TestQueryStatesObserver(t *testing.T) {
	h, mem, _ := newTestHandler(t, config.AliceConfig{})
	setState(t, mem, "switch.test_1", "on")

	var observed []schema.DeviceState
	h.SetStatesObserver(func(_ context.Context, states []schema.DeviceState) {
		observed = states
	})

	body := []byte(`{"devices": [{"id": "switch.test_1"}, {"id": "switch.missing"}]}`)
	states, err := h.Query(context.Background(), Request{Body: body})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if !reflect.DeepEqual(observed, states.Devices) {
		t.Errorf("observed = %+v, want %+v", observed, states.Devices)
	}
}

func TestDeviceList(t *testing.T) {
	cfg := config.AliceConfig{Filter: config.FilterConfig{
		IncludeDomains:  []string{"switch", "sensor"},
		ExcludeEntities: []string{"switch.not_expose"},
	}}
	h, mem, logger := newTestHandler(t, cfg)
	setState(t, mem, "switch.test_1", "off")
	setState(t, mem, "switch.not_expose", "on")
	setState(t, mem, "sensor.test", "33")
	setState(t, mem, "light.kitchen", "on")

	list, err := h.DeviceList(context.Background(), Request{RequestID: testRequestID, UserID: PingUserID})
	if err != nil {
		t.Fatalf("DeviceList() error = %v", err)
	}
	if list.UserID != PingUserID {
		t.Errorf("UserID = %q, want %q", list.UserID, PingUserID)
	}
	if len(list.Devices) != 1 {
		t.Fatalf("len(Devices) = %d, want 1: %+v", len(list.Devices), list.Devices)
	}

	got := list.Devices[0]
	if got.ID != "switch.test_1" || got.Name != "test 1" || got.Type != schema.DeviceTypeSwitch {
		t.Errorf("device = %+v, want switch.test_1 named 'test 1' of type switch", got)
	}
	if got.DeviceInfo == nil || got.DeviceInfo.Model != "switch.test_1" {
		t.Errorf("DeviceInfo = %+v, want model switch.test_1", got.DeviceInfo)
	}
	if len(got.Capabilities) != 1 || got.Capabilities[0].Type != schema.CapabilityOnOff {
		t.Errorf("Capabilities = %+v, want on_off", got.Capabilities)
	}

	want := []string{"Missing capabilities and properties for sensor.test"}
	if debug := logger.Messages("debug"); !reflect.DeepEqual(debug, want) {
		t.Errorf("debug = %q, want %q", debug, want)
	}
}

func TestDeviceListDiscovery(t *testing.T) {
	h, mem, _ := newTestHandler(t, config.AliceConfig{Filter: exposeAll()})
	ctx := context.Background()

	if _, err := h.DeviceList(ctx, Request{UserID: PingUserID}); err != nil {
		t.Fatalf("DeviceList(ping) error = %v", err)
	}
	if discovered, _ := mem.DevicesDiscovered(ctx); discovered {
		t.Error("DevicesDiscovered() = true after ping, want false")
	}

	if _, err := h.DeviceList(ctx, Request{UserID: "foo"}); err != nil {
		t.Fatalf("DeviceList(foo) error = %v", err)
	}
	if discovered, _ := mem.DevicesDiscovered(ctx); !discovered {
		t.Error("DevicesDiscovered() = false, want true")
	}
}

// ============================================================================
// Action
// ============================================================================

func actionBody(entityID string, capabilities string) []byte {
	return []byte(`{"payload": {"devices": [{"id": "` + entityID + `", "capabilities": [` + capabilities + `]}]}}`)
}

const onOffOn = `{"type": "devices.capabilities.on_off", "state": {"instance": "on", "value": true}}`

func TestAction(t *testing.T) {
	h, mem, _ := newTestHandler(t, config.AliceConfig{Filter: exposeAll()})
	setState(t, mem, "switch.test", "off")
	setState(t, mem, "switch.gone", "unavailable")

	body := []byte(`{"payload": {"devices": [
		{"id": "switch.test", "capabilities": [` + onOffOn + `]},
		{"id": "switch.gone", "capabilities": [` + onOffOn + `]},
		{"id": "switch.missing", "capabilities": [` + onOffOn + `]}
	]}}`)
	result, err := h.Action(context.Background(), Request{RequestID: testRequestID, UserID: "foo", Body: body})
	if err != nil {
		t.Fatalf("Action() error = %v", err)
	}

	unreachable := schema.Failed(schema.CodeDeviceUnreachable)
	want := []schema.ActionResultDevice{
		{ID: "switch.test", Capabilities: []schema.ActionResultCapability{{
			Type:  schema.CapabilityOnOff,
			State: schema.ActionResultCapabilityState{Instance: schema.InstanceOn, ActionResult: schema.Done()},
		}}},
		{ID: "switch.gone", ActionResult: &unreachable},
		{ID: "switch.missing", ActionResult: &unreachable},
	}
	if !reflect.DeepEqual(result.Devices, want) {
		t.Errorf("Devices = %+v, want %+v", result.Devices, want)
	}

	calls := mem.Calls()
	if len(calls) != 1 || calls[0].Name() != "switch.turn_on" || calls[0].Data["entity_id"] != "switch.test" {
		t.Errorf("calls = %+v, want switch.turn_on for switch.test", calls)
	}
	if events := mem.Events(); len(events) != 3 {
		t.Errorf("len(events) = %d, want 3", len(events))
	}
}

func TestActionErrorCodeRules(t *testing.T) {
	cfg := config.AliceConfig{
		Filter: exposeAll(),
		EntityConfig: map[string]config.EntityConfig{
			"switch.test": {ErrorCodeRules: []config.ErrorCodeRule{
				{Type: "on_off", Instance: "on", Value: true, Code: "NOT_ENOUGH_WATER"},
				{Instance: "pause", EntityState: &config.EntityStateCondition{EntityID: "sensor.foo", State: "bar"}, Code: "CONTAINER_FULL"},
				{Instance: "backlight", Value: true, Code: "WAT?"},
			}},
		},
	}
	h, mem, logger := newTestHandler(t, cfg)
	setState(t, mem, "switch.test", "off")
	ctx := context.Background()

	pause := `{"type": "devices.capabilities.toggle", "state": {"instance": "pause", "value": true}}`
	backlight := `{"type": "devices.capabilities.toggle", "state": {"instance": "backlight", "value": true}}`

	codes := func(result *schema.ActionResult) []schema.ResponseCode {
		var out []schema.ResponseCode
		for _, c := range result.Devices[0].Capabilities {
			out = append(out, c.State.ActionResult.ErrorCode)
		}
		return out
	}

	result, err := h.Action(ctx, Request{Body: actionBody("switch.test", onOffOn+","+pause+","+backlight)})
	if err != nil {
		t.Fatalf("Action() error = %v", err)
	}
	want := []schema.ResponseCode{schema.CodeNotEnoughWater, schema.CodeNotSupportedInCurrentMode, schema.CodeInternalError}
	if got := codes(result); !reflect.DeepEqual(got, want) {
		t.Errorf("codes = %v, want %v", got, want)
	}
	if len(mem.Calls()) != 1 {
		t.Errorf("calls = %v, want the on_off call", mem.Calls())
	}

	errs := logger.Messages("error")
	wantLog := "Invalid error code for switch.test: 'WAT?' (INTERNAL_ERROR)"
	if len(errs) < 2 || errs[len(errs)-2] != wantLog {
		t.Errorf("errors = %q, want %q before the last one", errs, wantLog)
	}

	setState(t, mem, "sensor.foo", "bar")
	result, err = h.Action(ctx, Request{Body: actionBody("switch.test", pause)})
	if err != nil {
		t.Fatalf("Action() error = %v", err)
	}
	if got := codes(result); !reflect.DeepEqual(got, []schema.ResponseCode{schema.CodeContainerFull}) {
		t.Errorf("codes = %v, want [CONTAINER_FULL]", got)
	}
}

func TestActionNotAllowed(t *testing.T) {
	cfg := config.AliceConfig{
		Filter:       exposeAll(),
		EntityConfig: map[string]config.EntityConfig{"switch.test": {TurnOn: config.ActionConfig{Disabled: true}}},
	}
	h, mem, logger := newTestHandler(t, cfg)
	setState(t, mem, "switch.test", "off")

	result, err := h.Action(context.Background(), Request{Body: actionBody("switch.test", onOffOn)})
	if err != nil {
		t.Fatalf("Action() error = %v", err)
	}
	got := result.Devices[0].Capabilities[0].State.ActionResult
	if got != schema.Failed(schema.CodeRemoteControlDisabled) {
		t.Errorf("ActionResult = %+v, want REMOTE_CONTROL_DISABLED", got)
	}
	if errs := logger.Messages("error"); len(errs) != 0 {
		t.Errorf("errors = %q, want none", errs)
	}
	if warns := logger.Messages("warn"); len(warns) != 0 {
		t.Errorf("warnings = %q, want none", warns)
	}
}
