package device

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

func onOffAction(on bool) schema.CapabilityInstanceAction {
	return schema.CapabilityInstanceAction{
		Type: schema.CapabilityOnOff,
		State: schema.CapabilityInstanceActionState{Instance: schema.InstanceOn, Value: on},
	}
}

func testDevice(t *testing.T, cfg config.AliceConfig, entityID, state string, attrs map[string]any) (*Device, *host.Memory, *MockLogger) {
	t.Helper()
	mem := host.NewMemory()
	logger := &MockLogger{}
	r := NewResolver(mem, cfg, nil)
	r.SetLogger(logger)
	st := putState(t, mem, entityID, state, attrs)
	return r.Device(st), mem, logger
}

type capabilityID struct {
	t        schema.CapabilityType
	instance schema.CapabilityInstance
}

func capabilityIDs(caps []Capability) []capabilityID {
	out := make([]capabilityID, 0, len(caps))
	for _, c := range caps {
		info := c.Info()
		out = append(out, capabilityID{info.Type, info.Instance})
	}
	return out
}

// ============================================================================
// Resolution
// ============================================================================

func TestDeviceCapabilitiesOrderAndDedup(t *testing.T) {
	cfg := entityConfig("light.desk", config.EntityConfig{
		CustomRanges: config.CustomCapabilities{{
			Instance:       "brightness",
			StateAttribute: "level",
			SetValue:       &config.ServiceCallConfig{Service: "script.desk_level"},
		}},
	})
	d, _, _ := testDevice(t, cfg, "light.desk", "on", map[string]any{
		"supported_color_modes": []any{"color_temp"},
		"color_mode":            "color_temp",
		"color_temp_kelvin":     3000,
		"brightness":            200,
		"level":                 40,
	})

	want := []capabilityID{
		{schema.CapabilityRange, schema.RangeBrightness},
		{schema.CapabilityColorSetting, schema.ColorBase},
		{schema.CapabilityColorSetting, schema.ColorTemperatureK},
		{schema.CapabilityOnOff, schema.InstanceOn},
	}
	if got := capabilityIDs(d.Capabilities()); !reflect.DeepEqual(got, want) {
		t.Errorf("Capabilities() = %v, want %v", got, want)
	}

	brightness := d.capability(schema.CapabilityRange, schema.RangeBrightness)
	if got := value(t, brightness); got != 40.0 {
		t.Errorf("custom brightness Value() = %v, want 40", got)
	}
}

func TestDeviceCustomPropertyErrors(t *testing.T) {
	cfg := entityConfig("switch.heater", config.EntityConfig{
		Properties: []config.PropertyConfig{
			{Type: "temperature", EntityID: "binary_sensor.heater_door"},
			{Type: "loudness"},
			{Type: "power", Attribute: "power"},
		},
	})
	d, _, logger := testDevice(t, cfg, "switch.heater", "on", map[string]any{"power": 1200})

	props := d.Properties()
	if len(props) != 1 || props[0].Info().Instance != schema.InstancePower {
		t.Fatalf("Properties() = %d, want the power property only", len(props))
	}
	want := []string{
		"Unsupported entity binary_sensor.heater_door for temperature instance of switch.heater",
		"Unsupported property loudness for switch.heater",
	}
	if got := logger.Messages("error"); !reflect.DeepEqual(got, want) {
		t.Errorf("errors = %q, want %q", got, want)
	}
}

// ============================================================================
// Describe
// ============================================================================

func TestDescribe(t *testing.T) {
	d, mem, _ := testDevice(t, config.AliceConfig{}, "light.desk", "on", map[string]any{
		"supported_color_modes": []any{"color_temp"},
		"color_temp_kelvin":     3000,
		"friendly_name":         "Desk",
	})
	mem.AddEntity(host.EntityEntry{
		EntityID: "light.desk",
		Name:     "Desk Lamp",
		Aliases:  []string{"desk", "Настольная лампа"},
		DeviceID: "dev1",
	})
	mem.AddDevice(host.DeviceEntry{ID: "dev1", Manufacturer: "IKEA", Model: "TRADFRI", SWVersion: "2.3", AreaID: "study"})
	mem.AddArea(host.AreaEntry{ID: "study", Name: "Study", Aliases: []string{"Кабинет"}})

	desc, err := d.Describe(context.Background())
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if desc.Name != "Настольная лампа" {
		t.Errorf("Name = %q, want Настольная лампа", desc.Name)
	}
	if desc.Room != "Кабинет" {
		t.Errorf("Room = %q, want Кабинет", desc.Room)
	}
	if desc.Type != schema.DeviceTypeLight {
		t.Errorf("Type = %s, want %s", desc.Type, schema.DeviceTypeLight)
	}
	wantInfo := schema.DeviceInfo{Manufacturer: "IKEA", Model: "TRADFRI | light.desk", SWVersion: "2.3"}
	if desc.DeviceInfo == nil || *desc.DeviceInfo != wantInfo {
		t.Errorf("DeviceInfo = %+v, want %+v", desc.DeviceInfo, wantInfo)
	}

	var types []schema.CapabilityType
	for _, c := range desc.Capabilities {
		types = append(types, c.Type)
	}
	wantTypes := []schema.CapabilityType{schema.CapabilityColorSetting, schema.CapabilityRange, schema.CapabilityOnOff}
	if !reflect.DeepEqual(types, wantTypes) {
		t.Errorf("capability types = %v, want %v", types, wantTypes)
	}
	if desc.Properties == nil || len(desc.Properties) != 0 {
		t.Errorf("Properties = %v, want empty list", desc.Properties)
	}
}

func TestDescribeNameAndRoom(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.EntityConfig
		attrs    map[string]any
		entity   *host.EntityEntry
		areas    []host.AreaEntry
		wantName string
		wantRoom string
	}{
		{
			name: "configured",
			cfg:      config.EntityConfig{Name: "Чайник", Room: "Кухня"},
			attrs: map[string]any{"friendly_name": "Kettle"},
			entity:   &host.EntityEntry{EntityID: "switch.kettle_plug", Name: "Kettle plug", AreaID: "kitchen"},
			areas:    []host.AreaEntry{{ID: "kitchen", Name: "Kitchen"}},
			wantName: "Чайник",
			wantRoom: "Кухня",
		},
		{
			name:  "registry name and area name",
			attrs: map[string]any{"friendly_name": "Kettle"},
			entity:   &host.EntityEntry{EntityID: "switch.kettle_plug", Name: "Kettle plug", Aliases: []string{"kettle"}, AreaID: "kitchen"},
			areas:    []host.AreaEntry{{ID: "kitchen", Name: "Kitchen"}},
			wantName: "Kettle plug",
			wantRoom: "Kitchen",
		},
		{
			name:     "friendly name",
			attrs:    map[string]any{"friendly_name": "Kettle"},
			wantName: "Kettle",
		},
		{
			name:     "object id",
			wantName: "kettle plug",
		},
		{
			name: "missing area",
			entity:   &host.EntityEntry{EntityID: "switch.kettle_plug", AreaID: "garage"},
			wantName: "kettle plug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, mem, _ := testDevice(t, entityConfig("switch.kettle_plug", tt.cfg), "switch.kettle_plug", "off", tt.attrs)
			if tt.entity != nil {
				mem.AddEntity(*tt.entity)
			}
			for _, a := range tt.areas {
				mem.AddArea(a)
			}
			desc, err := d.Describe(context.Background())
			if err != nil {
				t.Fatalf("Describe() error = %v", err)
			}
			if desc.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", desc.Name, tt.wantName)
			}
			if desc.Room != tt.wantRoom {
				t.Errorf("Room = %q, want %q", desc.Room, tt.wantRoom)
			}
			if desc.DeviceInfo.Model != "switch.kettle_plug" {
				t.Errorf("Model = %q, want switch.kettle_plug", desc.DeviceInfo.Model)
			}
		})
	}
}

func TestDescribeWithoutType(t *testing.T) {
	d, _, _ := testDevice(t, config.AliceConfig{}, "input_number.level", "3", nil)
	desc, err := d.Describe(context.Background())
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if desc != nil {
		t.Errorf("Describe() = %+v, want nil", desc)
	}
}

func TestDeviceType(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.EntityConfig
		entityID string
		attrs    map[string]any
		want     schema.DeviceType
		wantWarn bool
	}{
		{"light", config.EntityConfig{}, "light.desk", nil, schema.DeviceTypeLight, false},
		{"outlet", config.EntityConfig{}, "switch.plug", map[string]any{"device_class": "outlet"}, schema.DeviceTypeSocket, false},
		{"curtain", config.EntityConfig{}, "cover.bedroom", map[string]any{"device_class": "curtain"}, schema.DeviceTypeOpenableCurtain, false},
		{"climate sensor", config.EntityConfig{}, "sensor.co2", map[string]any{"device_class": "carbon_dioxide"}, schema.DeviceTypeSensorClimate, false},
		{"plain sensor", config.EntityConfig{}, "sensor.uptime", nil, schema.DeviceTypeSensor, false},
		{"door", config.EntityConfig{}, "binary_sensor.door", map[string]any{"device_class": "door"}, schema.DeviceTypeSensorOpen, false},
		{"configured button class", config.EntityConfig{DeviceClass: "button"}, "sensor.remote_action", nil, schema.DeviceTypeSensorButton, false},
		{"tv", config.EntityConfig{}, "media_player.tv", map[string]any{"device_class": "tv"}, schema.DeviceTypeMediaDeviceTV, false},
		{"dehumidifier", config.EntityConfig{}, "humidifier.basement", map[string]any{"device_class": "dehumidifier"}, schema.DeviceTypePurifier, false},
		{"configured short type", config.EntityConfig{Type: "socket"}, "switch.plug", nil, schema.DeviceTypeSocket, false},
		{"configured full type", config.EntityConfig{Type: "devices.types.light"}, "switch.lamp", nil, schema.DeviceTypeLight, false},
		{"unknown configured type", config.EntityConfig{Type: "spaceship"}, "switch.lamp", nil, schema.DeviceTypeSwitch, true},
		{"no type", config.EntityConfig{}, "input_number.level", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _, logger := testDevice(t, entityConfig(tt.entityID, tt.cfg), tt.entityID, "on", tt.attrs)
			if got := d.Type(); got != tt.want {
				t.Errorf("Type() = %s, want %s", got, tt.want)
			}
			if warned := len(logger.Messages("warn")) > 0; warned != tt.wantWarn {
				t.Errorf("warned = %v, want %v", warned, tt.wantWarn)
			}
		})
	}
}

func TestShouldExpose(t *testing.T) {
	lights := config.AliceConfig{Filter: config.FilterConfig{IncludeDomains: []string{"light", "weather"}}}
	tests := []struct {
		name     string
		cfg      config.AliceConfig
		entityID string
		state    string
		want     bool
	}{
		{"included domain", lights, "light.desk", "on", true},
		{"other domain", lights, "switch.plug", "on", false},
		{"empty filter", config.AliceConfig{}, "light.desk", "on", false},
		{"unavailable", lights, "light.desk", "unavailable", false},
		{"unsupported domain", lights, "weather.home", "sunny", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _, _ := testDevice(t, tt.cfg, tt.entityID, tt.state, nil)
			if got := d.ShouldExpose(); got != tt.want {
				t.Errorf("ShouldExpose() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ============================================================================
// Query
// ============================================================================

func TestQuery(t *testing.T) {
	d, _, _ := testDevice(t, config.AliceConfig{}, "climate.living", "heat", map[string]any{
		"supported_features":  climateSupportTargetTemperature,
		"hvac_modes":          []any{"off", "heat"},
		"temperature":         21,
		"current_temperature": 20.5,
		"min_temp":            7,
		"max_temp":            35,
	})

	got := d.Query(context.Background())
	want := schema.DeviceState{
		ID: "climate.living",
		Capabilities: []schema.CapabilityInstanceState{
			{Type: schema.CapabilityRange, State: schema.CapabilityInstanceStateValue{Instance: schema.RangeTemperature, Value: 21.0}},
			{Type: schema.CapabilityMode, State: schema.CapabilityInstanceStateValue{Instance: schema.ModeThermostat, Value: schema.ModeValueHeat}},
			{Type: schema.CapabilityOnOff, State: schema.CapabilityInstanceStateValue{Instance: schema.InstanceOn, Value: true}},
		},
		Properties: []schema.PropertyInstanceState{
			{Type: schema.PropertyFloat, State: schema.PropertyInstanceStateValue{Instance: schema.InstanceTemperature, Value: 20.5}},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Query() = %+v, want %+v", got, want)
	}
}

func TestQueryUnreachable(t *testing.T) {
	tests := []struct {
		name     string
		entityID string
		state    string
		attrs    map[string]any
		wantWarn bool
	}{
		{"unavailable", "switch.plug", "unavailable", nil, false},
		{"nothing retrievable", "scene.evening", "scening", nil, false},
		{"failing property", "sensor.outdoor", "warm", map[string]any{"device_class": "temperature"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _, logger := testDevice(t, config.AliceConfig{}, tt.entityID, tt.state, tt.attrs)
			got := d.Query(context.Background())
			want := schema.DeviceState{ID: tt.entityID, ErrorCode: schema.CodeDeviceUnreachable}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Query() = %+v, want %+v", got, want)
			}
			if warned := len(logger.Messages("warn")) > 0; warned != tt.wantWarn {
				t.Errorf("warned = %v, want %v", warned, tt.wantWarn)
			}
		})
	}
}

// MockCapability is a capability with a fixed value or error.
type MockCapability struct {
	info  CapabilityInfo
	value any
	err   error
}

func (c *MockCapability) Info() CapabilityInfo               { return c.info }
func (c *MockCapability) Parameters() any                    { return nil }
func (c *MockCapability) Value(context.Context) (any, error) { return c.value, c.err }
func (c *MockCapability) Set(context.Context, schema.CapabilityInstanceActionState) (any, error) {
	return nil, c.err
}

func TestQueryCapabilityErrors(t *testing.T) {
	failing := errors.New("bad state")
	tests := []struct {
		name string
		caps []*MockCapability
		want schema.DeviceState
	}{
		{
			name: "on_off failure is unreachable",
			caps: []*MockCapability{
				{info: CapabilityInfo{Type: schema.CapabilityRange, Instance: schema.RangeBrightness, Retrievable: true}, value: 50.0},
				{info: CapabilityInfo{Type: schema.CapabilityOnOff, Instance: schema.InstanceOn, Retrievable: true}, err: failing},
			},
			want: schema.DeviceState{ID: "light.desk", ErrorCode: schema.CodeDeviceUnreachable},
		},
		{
			name: "other failure is left out",
			caps: []*MockCapability{
				{info: CapabilityInfo{Type: schema.CapabilityRange, Instance: schema.RangeBrightness, Retrievable: true}, err: failing},
				{info: CapabilityInfo{Type: schema.CapabilityOnOff, Instance: schema.InstanceOn, Retrievable: true}, value: true},
			},
			want: schema.DeviceState{
				ID: "light.desk",
				Capabilities: []schema.CapabilityInstanceState{
					{Type: schema.CapabilityOnOff, State: schema.CapabilityInstanceStateValue{Instance: schema.InstanceOn, Value: true}},
				},
				Properties: []schema.PropertyInstanceState{},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := &Catalog{}
			for _, c := range tt.caps {
				catalog.Capabilities = append(catalog.Capabilities, CapabilityKind{
					Type:      c.info.Type,
					Instance:  c.info.Instance,
					Supported: func(*Entry, *host.State) bool { return true },
					New:       func(*Entry, *host.State) Capability { return c },
				})
			}
			mem := host.NewMemory()
			r := NewResolver(mem, config.AliceConfig{}, catalog)
			r.SetLogger(&MockLogger{})
			st := putState(t, mem, "light.desk", "on", nil)

			got := r.Device(st).Query(context.Background())
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Query() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestQueryNonFiniteProperty(t *testing.T) {
	for _, state := range []string{"nan", "inf", "-Inf"} {
		t.Run(state, func(t *testing.T) {
			d, _, logger := testDevice(t, config.AliceConfig{}, "sensor.outdoor", state, map[string]any{"device_class": "temperature"})
			got := d.Query(context.Background())
			want := schema.DeviceState{ID: "sensor.outdoor", ErrorCode: schema.CodeDeviceUnreachable}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Query() = %+v, want %+v", got, want)
			}
			if _, err := json.Marshal(got); err != nil {
				t.Errorf("json.Marshal(Query()) error = %v", err)
			}
			if len(logger.Messages("warn")) == 0 {
				t.Error("expected a warning for the non-finite value")
			}
		})
	}
}

// ============================================================================
// Execute
// ============================================================================

func TestExecuteErrors(t *testing.T) {
	t.Run("capability not found", func(t *testing.T) {
		d, _, _ := testDevice(t, config.AliceConfig{}, "switch.plug", "on", nil)
		_, err := d.Execute(context.Background(), schema.CapabilityInstanceAction{
			Type: schema.CapabilityToggle,
			State: schema.CapabilityInstanceActionState{Instance: schema.ToggleMute, Value: true},
		})
		assertCode(t, err, schema.CodeNotSupportedInCurrentMode, "Capability not found for instance mute (devices.capabilities.toggle) of switch.plug")
	})

	t.Run("remote control disabled", func(t *testing.T) {
		cfg := entityConfig("lock.front", config.EntityConfig{TurnOn: config.ActionConfig{Disabled: true}})
		d, mem, _ := testDevice(t, cfg, "lock.front", "locked", nil)
		_, err := d.Execute(context.Background(), onOffAction(true))
		assertCode(t, err, schema.CodeRemoteControlDisabled, "")
		if len(mem.Calls()) != 0 {
			t.Errorf("calls = %v, want none", mem.Calls())
		}
		if _, err := d.Execute(context.Background(), onOffAction(false)); err != nil {
			t.Errorf("turn off error = %v, want nil", err)
		}
	})

	t.Run("host failure", func(t *testing.T) {
		d, mem, _ := testDevice(t, config.AliceConfig{}, "switch.plug", "on", nil)
		mem.FailService("switch.turn_on", errors.New("boom"))
		_, err := d.Execute(context.Background(), onOffAction(true))
		assertCode(t, err, schema.CodeInternalError, "Failed to execute action for instance on (devices.capabilities.on_off) of switch.plug: boom")
	})

	t.Run("unavailable", func(t *testing.T) {
		d, _, _ := testDevice(t, config.AliceConfig{}, "switch.plug", "unavailable", nil)
		_, err := d.Execute(context.Background(), onOffAction(true))
		assertCode(t, err, schema.CodeDeviceUnreachable, "")
	})
}

func TestExecuteAll(t *testing.T) {
	d, mem, logger := testDevice(t, config.AliceConfig{}, "switch.plug", "off", nil)
	mute := schema.CapabilityInstanceAction{
		Type: schema.CapabilityToggle,
		State: schema.CapabilityInstanceActionState{Instance: schema.ToggleMute, Value: true},
	}

	result := d.ExecuteAll(context.Background(), []schema.CapabilityInstanceAction{onOffAction(true), mute})
	want := schema.ActionResultDevice{
		ID: "switch.plug",
		Capabilities: []schema.ActionResultCapability{
			{Type: schema.CapabilityOnOff, State: schema.ActionResultCapabilityState{Instance: schema.InstanceOn, ActionResult: schema.Done()}},
			{Type: schema.CapabilityToggle, State: schema.ActionResultCapabilityState{
				Instance:     schema.ToggleMute,
				ActionResult: schema.Failed(schema.CodeNotSupportedInCurrentMode),
			}},
		},
	}
	if !reflect.DeepEqual(result, want) {
		t.Errorf("ExecuteAll() = %+v, want %+v", result, want)
	}

	events := mem.Events()
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	first := events[0]
	if first.Type != EventDeviceAction || first.Data["entity_id"] != "switch.plug" {
		t.Errorf("event = %+v, want %s for switch.plug", first, EventDeviceAction)
	}
	if _, ok := first.Data["error_code"]; ok {
		t.Errorf("error_code = %v, want none", first.Data["error_code"])
	}
	capability := first.Data["capability"].(map[string]any)
	state := capability["state"].(map[string]any)
	if capability["type"] != "devices.capabilities.on_off" || state["instance"] != "on" || state["value"] != true {
		t.Errorf("capability = %v, want on_off on=true", capability)
	}
	if events[1].Data["error_code"] != "NOT_SUPPORTED_IN_CURRENT_MODE" {
		t.Errorf("error_code = %v, want NOT_SUPPORTED_IN_CURRENT_MODE", events[1].Data["error_code"])
	}

	if errs := logger.Messages("error"); len(errs) != 1 {
		t.Errorf("errors = %q, want one", errs)
	}
}

func TestExecuteAllUnavailable(t *testing.T) {
	d, mem, _ := testDevice(t, config.AliceConfig{}, "switch.plug", "unavailable", nil)
	result := d.ExecuteAll(context.Background(), []schema.CapabilityInstanceAction{onOffAction(true)})

	failed := schema.Failed(schema.CodeDeviceUnreachable)
	want := schema.ActionResultDevice{ID: "switch.plug", ActionResult: &failed}
	if !reflect.DeepEqual(result, want) {
		t.Errorf("ExecuteAll() = %+v, want %+v", result, want)
	}
	events := mem.Events()
	if len(events) != 1 || events[0].Data["error_code"] != "DEVICE_UNREACHABLE" {
		t.Errorf("events = %+v, want one DEVICE_UNREACHABLE event", events)
	}
	if len(mem.Calls()) != 0 {
		t.Errorf("calls = %v, want none", mem.Calls())
	}
}

func TestExecuteRemoteControlDisabledLogsDebug(t *testing.T) {
	cfg := entityConfig("lock.front", config.EntityConfig{TurnOn: config.ActionConfig{Disabled: true}})
	d, _, logger := testDevice(t, cfg, "lock.front", "locked", nil)
	d.ExecuteAll(context.Background(), []schema.CapabilityInstanceAction{onOffAction(true)})

	if errs := logger.Messages("error"); len(errs) != 0 {
		t.Errorf("errors = %q, want none", errs)
	}
	if debug := logger.Messages("debug"); len(debug) != 1 {
		t.Errorf("debug = %q, want one message", debug)
	}
}

func TestExecuteErrorCodeOverride(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		want     schema.ActionResultValue
		wantLogs []string
	}{
		{"keep outcome", "", schema.Done(), nil},
		{"override success", "DOOR_OPEN", schema.Failed(schema.CodeDoorOpen), nil},
		{"invalid code", "bogus", schema.Failed(schema.CodeInternalError), []string{
			"Invalid error code for switch.plug: 'bogus' (INTERNAL_ERROR)",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := host.NewMemory()
			logger := &MockLogger{}
			r := NewResolver(mem, config.AliceConfig{}, nil)
			r.SetLogger(logger)

			var gotEntity string
			var gotAction schema.CapabilityInstanceAction
			r.SetErrorCodeFunc(func(_ context.Context, entityID string, action schema.CapabilityInstanceAction) string {
				gotEntity, gotAction = entityID, action
				return tt.code
			})
			putState(t, mem, "switch.plug", "off", nil)
			d, err := r.Resolve(context.Background(), "switch.plug")
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}

			result := d.ExecuteAll(context.Background(), []schema.CapabilityInstanceAction{onOffAction(true)})
			if got := result.Capabilities[0].State.ActionResult; got != tt.want {
				t.Errorf("ActionResult = %+v, want %+v", got, tt.want)
			}
			if gotEntity != "switch.plug" || !reflect.DeepEqual(gotAction, onOffAction(true)) {
				t.Errorf("error code func called with %s %+v", gotEntity, gotAction)
			}
			if len(mem.Calls()) != 1 {
				t.Errorf("len(calls) = %d, want 1", len(mem.Calls()))
			}
			if tt.wantLogs != nil {
				if errs := logger.Messages("error"); len(errs) == 0 || errs[0] != tt.wantLogs[0] {
					t.Errorf("errors = %q, want first %q", errs, tt.wantLogs[0])
				}
			}
		})
	}
}

// ============================================================================
// Resolver
// ============================================================================

func TestResolver(t *testing.T) {
	mem := host.NewMemory()
	r := NewResolver(mem, config.AliceConfig{}, nil)
	putState(t, mem, "switch.b", "on", nil)
	putState(t, mem, "light.a", "off", nil)

	if _, err := r.Resolve(context.Background(), "not an id"); !errors.Is(err, ErrInvalidEntityID) {
		t.Errorf("Resolve(invalid) error = %v, want ErrInvalidEntityID", err)
	}
	if _, err := r.Resolve(context.Background(), "switch.missing"); !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("Resolve(missing) error = %v, want ErrEntityNotFound", err)
	}

	d, err := r.Resolve(context.Background(), "switch.b")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if d.ID != "switch.b" || d.State().State != "on" {
		t.Errorf("Resolve() = %s %s, want switch.b on", d.ID, d.State().State)
	}

	all, err := r.All(context.Background())
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	var ids []string
	for _, d := range all {
		ids = append(ids, d.ID)
	}
	if !reflect.DeepEqual(ids, []string{"light.a", "switch.b"}) {
		t.Errorf("All() = %v, want [light.a switch.b]", ids)
	}

	result := r.Unreachable(context.Background(), "switch.missing")
	if result.ActionResult == nil || result.ActionResult.ErrorCode != schema.CodeDeviceUnreachable {
		t.Errorf("Unreachable() = %+v, want DEVICE_UNREACHABLE", result)
	}
	if events := mem.Events(); len(events) != 1 || events[0].Data["entity_id"] != "switch.missing" {
		t.Errorf("events = %+v, want one for switch.missing", events)
	}
}

func TestCustomCatalog(t *testing.T) {
	mem := host.NewMemory()
	catalog := &Catalog{
		Capabilities: []CapabilityKind{
			{schema.CapabilityOnOff, schema.InstanceOn, supportsBasicOnOff, newBasicOnOff},
		},
	}
	r := NewResolver(mem, config.AliceConfig{}, catalog)
	st := putState(t, mem, "light.desk", "on", map[string]any{"brightness": 255, "supported_features": lightSupportBrightness})

	want := []capabilityID{{schema.CapabilityOnOff, schema.InstanceOn}}
	if got := capabilityIDs(r.Device(st).Capabilities()); !reflect.DeepEqual(got, want) {
		t.Errorf("Capabilities() = %v, want %v", got, want)
	}
}
