package device

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

// EventDeviceAction is the type of the host event fired for every executed
// capability action.
const EventDeviceAction = "alice_device_action"

// ErrorCodeFunc returns an error code that replaces the outcome of an
// action on entityID, or "" to keep the outcome. It runs after both
// successful and failed actions.
type ErrorCodeFunc func(ctx context.Context, entityID string, action schema.CapabilityInstanceAction) string

// Device is one host entity exposed to the smart home platform.
type Device struct {
	ID string

	entry     *Entry
	state     *host.State
	catalog   *Catalog
	errorCode ErrorCodeFunc

	capabilities []Capability
	properties   []Property
	resolved     bool
}

func newDevice(entry *Entry, catalog *Catalog, errorCode ErrorCodeFunc, state *host.State) *Device {
	return &Device{
		ID:        state.EntityID,
		entry:     entry,
		state:     state,
		catalog:   catalog,
		errorCode: errorCode,
	}
}

// State returns the host state the device was resolved from.
func (d *Device) State() *host.State {
	return d.state
}

// Unavailable reports whether the entity is unreachable.
func (d *Device) Unavailable() bool {
	return d.state.Unavailable()
}

// ShouldExpose reports whether the device is visible to the platform.
// Unavailable entities, unsupported domains and entities rejected by the
// filter are hidden. An empty filter hides everything.
func (d *Device) ShouldExpose() bool {
	if d.Unavailable() || !supportedDomains[d.state.Domain()] {
		return false
	}
	return d.entry.Config.Filter.Matches(d.ID)
}

// ============================================================================
// Resolution
// ============================================================================

func (d *Device) resolve() {
	if d.resolved {
		return
	}
	d.resolved = true
	d.capabilities = d.resolveCapabilities()
	d.properties = d.resolveProperties()
}

// Capabilities returns the capabilities of the device: custom ones from
// entity configuration first, then the supported catalog kinds. Only the
// first capability of each type and instance is kept.
func (d *Device) Capabilities() []Capability {
	d.resolve()
	return d.capabilities
}

// Properties returns the properties of the device: custom ones from
// entity configuration first, then the supported catalog kinds. Only the
// first property of each type and instance is kept.
func (d *Device) Properties() []Property {
	d.resolve()
	return d.properties
}

type capabilityKey struct {
	t        schema.CapabilityType
	instance schema.CapabilityInstance
}

type propertyKey struct {
	t        schema.PropertyType
	instance schema.PropertyInstance
}

func (d *Device) resolveCapabilities() []Capability {
	seen := make(map[capabilityKey]bool)
	var out []Capability
	add := func(c Capability) {
		info := c.Info()
		key := capabilityKey{info.Type, info.Instance}
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, c)
	}

	for _, c := range customCapabilities(d.entry, d.state) {
		add(c)
	}
	for _, kind := range d.catalog.Capabilities {
		if seen[capabilityKey{kind.Type, kind.Instance}] || !kind.Supported(d.entry, d.state) {
			continue
		}
		add(kind.New(d.entry, d.state))
	}
	return out
}

func (d *Device) resolveProperties() []Property {
	seen := make(map[propertyKey]bool)
	var out []Property
	add := func(p Property) {
		info := p.Info()
		key := propertyKey{info.Type, info.Instance}
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, p)
	}

	for _, cfg := range d.entry.entityConfig(d.ID).Properties {
		p, err := newCustomProperty(d.entry, d.ID, cfg)
		if err != nil {
			if apiErr, ok := schema.AsAPIError(err); ok {
				d.entry.logger().Error(apiErr.Message, "entity_id", d.ID)
			} else {
				d.entry.logger().Error(fmt.Sprintf("Unsupported property %s for %s", cfg.Type, d.ID), "error", err)
			}
			continue
		}
		add(p)
	}
	for _, kind := range d.catalog.Properties {
		if seen[propertyKey{kind.Type, kind.Instance}] || !kind.Supported(d.entry, d.state) {
			continue
		}
		add(kind.New(d.entry, d.state))
	}
	return out
}

func (d *Device) capability(t schema.CapabilityType, instance schema.CapabilityInstance) Capability {
	for _, c := range d.Capabilities() {
		if info := c.Info(); info.Type == t && info.Instance == instance {
			return c
		}
	}
	return nil
}

// ============================================================================
// Describe
// ============================================================================

// Type returns the device type: the configured type, or one inferred from
// the domain and device class. It is empty when no type applies.
func (d *Device) Type() schema.DeviceType {
	cfg := d.entry.entityConfig(d.ID)
	if cfg.Type != "" {
		if t, ok := schema.ParseDeviceType(cfg.Type); ok {
			return t
		}
		d.entry.logger().Warn(fmt.Sprintf("Unsupported device type '%s' for %s", cfg.Type, d.ID))
	}
	return inferDeviceType(d.state, cfg.DeviceClass)
}

// Describe returns the device list entry of the device, or nil when the
// device has no type.
func (d *Device) Describe(ctx context.Context) (*schema.DeviceDescription, error) {
	t := d.Type()
	if t == "" {
		return nil, nil
	}

	entity, err := d.entry.Host.Entity(ctx, d.ID)
	if err != nil && !errors.Is(err, host.ErrNotFound) {
		return nil, fmt.Errorf("looking up entity %s: %w", d.ID, err)
	}
	var dev *host.DeviceEntry
	if entity != nil && entity.DeviceID != "" {
		dev, err = d.entry.Host.Device(ctx, entity.DeviceID)
		if err != nil && !errors.Is(err, host.ErrNotFound) {
			return nil, fmt.Errorf("looking up device %s: %w", entity.DeviceID, err)
		}
	}

	room, err := d.room(ctx, entity, dev)
	if err != nil {
		return nil, err
	}

	desc := &schema.DeviceDescription{
		ID:           d.ID,
		Name:         d.name(entity),
		Room:         room,
		Type:         t,
		Capabilities: []schema.CapabilityDescription{},
		Properties:   []schema.PropertyDescription{},
		DeviceInfo:   deviceInfo(d.ID, dev),
	}
	for _, c := range d.Capabilities() {
		if c.Info().Hidden {
			continue
		}
		desc.Capabilities = append(desc.Capabilities, describeCapability(c))
	}
	for _, p := range d.Properties() {
		desc.Properties = append(desc.Properties, describeProperty(p))
	}
	return desc, nil
}

// name picks the configured name, the first Cyrillic entity alias, the
// registry name, the friendly name or the object id, in that order.
func (d *Device) name(entity *host.EntityEntry) string {
	if n := d.entry.entityConfig(d.ID).Name; n != "" {
		return n
	}
	if entity != nil {
		if alias := firstCyrillic(entity.Aliases); alias != "" {
			return alias
		}
		if entity.Name != "" {
			return entity.Name
		}
	}
	if n := d.state.FriendlyName(); n != "" {
		return n
	}
	return strings.ReplaceAll(d.state.ObjectID(), "_", " ")
}

// room picks the configured room, or the area of the entity or its device.
// An area is named by its first Cyrillic alias when it has one.
func (d *Device) room(ctx context.Context, entity *host.EntityEntry, dev *host.DeviceEntry) (string, error) {
	if r := d.entry.entityConfig(d.ID).Room; r != "" {
		return r, nil
	}

	var areaID string
	switch {
	case entity != nil && entity.AreaID != "":
		areaID = entity.AreaID
	case dev != nil && dev.AreaID != "":
		areaID = dev.AreaID
	default:
		return "", nil
	}

	area, err := d.entry.Host.Area(ctx, areaID)
	if errors.Is(err, host.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("looking up area %s: %w", areaID, err)
	}
	if alias := firstCyrillic(area.Aliases); alias != "" {
		return alias, nil
	}
	return area.Name, nil
}

func firstCyrillic(names []string) string {
	for _, n := range names {
		for _, r := range n {
			if unicode.Is(unicode.Cyrillic, r) {
				return n
			}
		}
	}
	return ""
}

func deviceInfo(entityID string, dev *host.DeviceEntry) *schema.DeviceInfo {
	info := &schema.DeviceInfo{Model: entityID}
	if dev == nil {
		return info
	}
	info.Manufacturer = dev.Manufacturer
	info.HWVersion = dev.HWVersion
	info.SWVersion = dev.SWVersion
	if dev.Model != "" {
		info.Model = dev.Model + " | " + entityID
	}
	return info
}

// ============================================================================
// Query
// ============================================================================

// Query returns the current values of the retrievable capabilities and
// properties. A device that is unavailable, has no values at all or fails
// to read its on_off state is reported unreachable. Other failing
// capabilities and properties are logged and left out.
func (d *Device) Query(ctx context.Context) schema.DeviceState {
	unreachable := schema.DeviceState{ID: d.ID, ErrorCode: schema.CodeDeviceUnreachable}
	if d.Unavailable() {
		return unreachable
	}

	st := schema.DeviceState{
		ID:           d.ID,
		Capabilities: []schema.CapabilityInstanceState{},
		Properties:   []schema.PropertyInstanceState{},
	}
	for _, c := range d.Capabilities() {
		info := c.Info()
		if !info.Retrievable {
			continue
		}
		v, err := c.Value(ctx)
		if err != nil {
			d.entry.logger().Warn(fmt.Sprintf("Failed to get value for instance %s (%s) of %s", info.Instance, info.Type, d.ID),
				"error", err)
			// on_off decides reachability.
			if info.Type == schema.CapabilityOnOff {
				return unreachable
			}
			continue
		}
		if v == nil {
			continue
		}
		st.Capabilities = append(st.Capabilities, schema.CapabilityInstanceState{
			Type: info.Type,
			State: schema.CapabilityInstanceStateValue{Instance: info.Instance, Value: v},
		})
	}
	for _, p := range d.Properties() {
		info := p.Info()
		if !info.Retrievable {
			continue
		}
		v, err := p.Value(ctx)
		if err != nil {
			d.entry.logger().Warn(err.Error(), "entity_id", p.ValueEntityID())
			continue
		}
		if v == nil {
			continue
		}
		st.Properties = append(st.Properties, schema.PropertyInstanceState{
			Type: info.Type,
			State: schema.PropertyInstanceStateValue{Instance: info.Instance, Value: v},
		})
	}

	if len(st.Capabilities) == 0 && len(st.Properties) == 0 {
		return unreachable
	}
	return st
}

// ============================================================================
// Execute
// ============================================================================

// Execute applies one capability action and returns its result value, if
// any. Every failure is an *schema.APIError.
func (d *Device) Execute(ctx context.Context, action schema.CapabilityInstanceAction) (any, error) {
	if d.Unavailable() {
		return nil, schema.NewAPIError(schema.CodeDeviceUnreachable, "Device %s is unavailable", d.ID)
	}

	c := d.capability(action.Type, action.State.Instance)
	if c == nil {
		return nil, schema.NewAPIError(schema.CodeNotSupportedInCurrentMode,
			"Capability not found for instance %s (%s) of %s", action.State.Instance, action.Type, d.ID)
	}

	if action.Type == schema.CapabilityOnOff {
		cfg := d.entry.entityConfig(d.ID)
		on, _ := action.State.Value.(bool)
		if (on && cfg.TurnOn.Disabled) || (!on && cfg.TurnOff.Disabled) {
			return nil, schema.NewAPIError(schema.CodeRemoteControlDisabled,
				"Remote control is disabled for instance %s (%s) of %s", action.State.Instance, action.Type, d.ID)
		}
	}

	value, err := c.Set(ctx, action.State)
	if err != nil {
		if apiErr, ok := schema.AsAPIError(err); ok {
			return nil, apiErr
		}
		return nil, schema.NewAPIError(schema.CodeInternalError,
			"Failed to execute action for instance %s (%s) of %s: %v", action.State.Instance, action.Type, d.ID, err)
	}
	return value, nil
}

// ExecuteAll applies actions in order and returns a result for every one
// of them. An unavailable device gets a single device-level result. An
// EventDeviceAction event is fired for every action, or once for an
// unavailable device.
func (d *Device) ExecuteAll(ctx context.Context, actions []schema.CapabilityInstanceAction) schema.ActionResultDevice {
	if d.Unavailable() {
		return unreachableResult(ctx, d.entry, d.ID)
	}

	result := schema.ActionResultDevice{ID: d.ID, Capabilities: make([]schema.ActionResultCapability, 0, len(actions))}
	for _, action := range actions {
		result.Capabilities = append(result.Capabilities, d.executeOne(ctx, action))
	}
	return result
}

func (d *Device) executeOne(ctx context.Context, action schema.CapabilityInstanceAction) schema.ActionResultCapability {
	value, err := d.Execute(ctx, action)
	err = d.overrideErrorCode(ctx, action, err)

	state := schema.ActionResultCapabilityState{Instance: action.State.Instance, ActionResult: schema.Done()}
	if err != nil {
		code := schema.CodeInternalError
		if apiErr, ok := schema.AsAPIError(err); ok {
			code = apiErr.Code
		}
		if code == schema.CodeRemoteControlDisabled {
			d.entry.logger().Debug(err.Error())
		} else {
			d.entry.logger().Error(err.Error())
		}
		state.ActionResult = schema.Failed(code)
	} else {
		state.Value = value
	}

	d.fireActionEvent(ctx, action, state.ActionResult.ErrorCode)
	return schema.ActionResultCapability{Type: action.Type, State: state}
}

// overrideErrorCode applies the configured error code function.
func (d *Device) overrideErrorCode(ctx context.Context, action schema.CapabilityInstanceAction, err error) error {
	if d.errorCode == nil {
		return err
	}
	raw := strings.TrimSpace(d.errorCode(ctx, d.ID, action))
	if raw == "" {
		return err
	}
	code, ok := schema.ParseResponseCode(raw)
	if !ok {
		invalid := schema.NewAPIError(schema.CodeInternalError, "Invalid error code for %s: '%s'", d.ID, raw)
		d.entry.logger().Error(invalid.Error())
		return invalid
	}
	return schema.NewAPIError(code, "Error code %s for instance %s (%s) of %s", code, action.State.Instance, action.Type, d.ID)
}

func (d *Device) fireActionEvent(ctx context.Context, action schema.CapabilityInstanceAction, code schema.ResponseCode) {
	data := map[string]any{
		"entity_id": d.ID,
		"capability": map[string]any{
			"type": string(action.Type),
			"state": map[string]any{
				"instance": string(action.State.Instance),
				"value":    action.State.Value,
			},
		},
	}
	if code != "" {
		data["error_code"] = string(code)
	}
	fireEvent(ctx, d.entry, data)
}

func fireEvent(ctx context.Context, entry *Entry, data map[string]any) {
	if err := entry.Host.FireEvent(ctx, host.Event{Type: EventDeviceAction, Data: data}); err != nil {
		entry.logger().Warn("failed to fire device action event", "error", err)
	}
}

// unreachableResult is the action result of a device that is unavailable
// or does not exist.
func unreachableResult(ctx context.Context, entry *Entry, entityID string) schema.ActionResultDevice {
	fireEvent(ctx, entry, map[string]any{
		"entity_id":  entityID,
		"error_code": string(schema.CodeDeviceUnreachable),
	})
	failed := schema.Failed(schema.CodeDeviceUnreachable)
	return schema.ActionResultDevice{ID: entityID, ActionResult: &failed}
}
