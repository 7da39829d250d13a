package schema

// DeviceType is the type of a user device.
type DeviceType string

// Device types.
const (
	DeviceTypeLight               DeviceType = "devices.types.light"
	DeviceTypeSocket              DeviceType = "devices.types.socket"
	DeviceTypeSwitch              DeviceType = "devices.types.switch"
	DeviceTypeThermostat          DeviceType = "devices.types.thermostat"
	DeviceTypeThermostatAC        DeviceType = "devices.types.thermostat.ac"
	DeviceTypeMediaDevice         DeviceType = "devices.types.media_device"
	DeviceTypeMediaDeviceTV       DeviceType = "devices.types.media_device.tv"
	DeviceTypeMediaDeviceTVBox    DeviceType = "devices.types.media_device.tv_box"
	DeviceTypeMediaDeviceReceiver DeviceType = "devices.types.media_device.receiver"
	DeviceTypeCamera              DeviceType = "devices.types.camera"
	DeviceTypeCooking             DeviceType = "devices.types.cooking"
	DeviceTypeCoffeeMaker         DeviceType = "devices.types.cooking.coffee_maker"
	DeviceTypeKettle              DeviceType = "devices.types.cooking.kettle"
	DeviceTypeMulticooker         DeviceType = "devices.types.cooking.multicooker"
	DeviceTypeOpenable            DeviceType = "devices.types.openable"
	DeviceTypeOpenableCurtain     DeviceType = "devices.types.openable.curtain"
	DeviceTypeHumidifier          DeviceType = "devices.types.humidifier"
	DeviceTypeFan                 DeviceType = "devices.types.fan"
	DeviceTypePurifier            DeviceType = "devices.types.purifier"
	DeviceTypeVacuumCleaner       DeviceType = "devices.types.vacuum_cleaner"
	DeviceTypeWashingMachine      DeviceType = "devices.types.washing_machine"
	DeviceTypeDishwasher          DeviceType = "devices.types.dishwasher"
	DeviceTypeIron                DeviceType = "devices.types.iron"
	DeviceTypeSensor              DeviceType = "devices.types.sensor"
	DeviceTypeSensorMotion        DeviceType = "devices.types.sensor.motion"
	DeviceTypeSensorVibration     DeviceType = "devices.types.sensor.vibration"
	DeviceTypeSensorIllumination  DeviceType = "devices.types.sensor.illumination"
	DeviceTypeSensorOpen          DeviceType = "devices.types.sensor.open"
	DeviceTypeSensorClimate       DeviceType = "devices.types.sensor.climate"
	DeviceTypeSensorWaterLeak     DeviceType = "devices.types.sensor.water_leak"
	DeviceTypeSensorButton        DeviceType = "devices.types.sensor.button"
	DeviceTypeSensorGas           DeviceType = "devices.types.sensor.gas"
	DeviceTypeSensorSmoke         DeviceType = "devices.types.sensor.smoke"
	DeviceTypePetDrinkingFountain DeviceType = "devices.types.pet_drinking_fountain"
	DeviceTypePetFeeder           DeviceType = "devices.types.pet_feeder"
	DeviceTypeOther               DeviceType = "devices.types.other"
)

// AllDeviceTypes returns every device type.
func AllDeviceTypes() []DeviceType {
	return []DeviceType{
		DeviceTypeLight, DeviceTypeSocket, DeviceTypeSwitch, DeviceTypeThermostat, DeviceTypeThermostatAC,
		DeviceTypeMediaDevice, DeviceTypeMediaDeviceTV, DeviceTypeMediaDeviceTVBox, DeviceTypeMediaDeviceReceiver,
		DeviceTypeCamera, DeviceTypeCooking, DeviceTypeCoffeeMaker, DeviceTypeKettle, DeviceTypeMulticooker,
		DeviceTypeOpenable, DeviceTypeOpenableCurtain, DeviceTypeHumidifier, DeviceTypeFan, DeviceTypePurifier,
		DeviceTypeVacuumCleaner, DeviceTypeWashingMachine, DeviceTypeDishwasher, DeviceTypeIron,
		DeviceTypeSensor, DeviceTypeSensorMotion, DeviceTypeSensorVibration, DeviceTypeSensorIllumination,
		DeviceTypeSensorOpen, DeviceTypeSensorClimate, DeviceTypeSensorWaterLeak, DeviceTypeSensorButton,
		DeviceTypeSensorGas, DeviceTypeSensorSmoke, DeviceTypePetDrinkingFountain, DeviceTypePetFeeder,
		DeviceTypeOther,
	}
}

// ParseDeviceType accepts a full type ("devices.types.light") or its short
// form ("light") as used in entity configuration.
func ParseDeviceType(s string) (DeviceType, bool) {
	for _, t := range AllDeviceTypes() {
		if string(t) == s || string(t) == "devices.types."+s {
			return t, true
		}
	}
	return "", false
}

// DeviceInfo is the extended device info of a device description.
type DeviceInfo struct {
	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"`
	HWVersion    string `json:"hw_version,omitempty"`
	SWVersion    string `json:"sw_version,omitempty"`
}

// DeviceDescription describes a device in a device list response.
type DeviceDescription struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	Description  string                  `json:"description,omitempty"`
	Room         string                  `json:"room,omitempty"`
	Type         DeviceType              `json:"type"`
	Capabilities []CapabilityDescription `json:"capabilities"`
	Properties   []PropertyDescription   `json:"properties"`
	DeviceInfo   *DeviceInfo             `json:"device_info,omitempty"`
}

// DeviceState is the state of a device in a query response. An unreachable
// device carries ErrorCode and no capability or property lists.
type DeviceState struct {
	ID           string                    `json:"id"`
	Capabilities []CapabilityInstanceState `json:"capabilities,omitzero"`
	Properties   []PropertyInstanceState   `json:"properties,omitzero"`
	ErrorCode    ResponseCode              `json:"error_code,omitempty"`
	ErrorMessage string                    `json:"error_message,omitempty"`
}

// DeviceList is the payload of a device list response.
type DeviceList struct {
	UserID  string              `json:"user_id"`
	Devices []DeviceDescription `json:"devices"`
}

// DeviceStates is the payload of a query response.
type DeviceStates struct {
	Devices []DeviceState `json:"devices"`
}

// StatesRequestDevice is one device of a query request.
type StatesRequestDevice struct {
	ID         string         `json:"id"`
	CustomData map[string]any `json:"custom_data,omitempty"`
}

// StatesRequest is the body of a query request.
type StatesRequest struct {
	Devices []StatesRequestDevice `json:"devices"`
}

// ActionRequestDevice is one device of an action request.
type ActionRequestDevice struct {
	ID           string                     `json:"id"`
	Capabilities []CapabilityInstanceAction `json:"capabilities"`
}

// ActionRequestPayload is the payload of an action request.
type ActionRequestPayload struct {
	Devices []ActionRequestDevice `json:"devices"`
}

// ActionRequest is the body of an action request.
type ActionRequest struct {
	Payload ActionRequestPayload `json:"payload"`
}

// ActionStatus is the outcome of an action.
type ActionStatus string

// Action statuses.
const (
	StatusDone  ActionStatus = "DONE"
	StatusError ActionStatus = "ERROR"
)

// ActionResultValue is the status of an action with an optional error code.
type ActionResultValue struct {
	Status    ActionStatus `json:"status"`
	ErrorCode ResponseCode `json:"error_code,omitempty"`
}

// Done returns a successful action result.
func Done() ActionResultValue {
	return ActionResultValue{Status: StatusDone}
}

// Failed returns a failed action result with code.
func Failed(code ResponseCode) ActionResultValue {
	return ActionResultValue{Status: StatusError, ErrorCode: code}
}

// ActionResultCapabilityState is the result of one capability change.
type ActionResultCapabilityState struct {
	Instance     CapabilityInstance `json:"instance"`
	Value        any                `json:"value,omitempty"`
	ActionResult ActionResultValue  `json:"action_result"`
}

// ActionResultCapability is the result of one capability change.
type ActionResultCapability struct {
	Type  CapabilityType              `json:"type"`
	State ActionResultCapabilityState `json:"state"`
}

// ActionResultDevice is the result of an action on one device. Either
// Capabilities or ActionResult is set.
type ActionResultDevice struct {
	ID           string                   `json:"id"`
	Capabilities []ActionResultCapability `json:"capabilities,omitempty"`
	ActionResult *ActionResultValue       `json:"action_result,omitempty"`
}

// ActionResult is the payload of an action response.
type ActionResult struct {
	Devices []ActionResultDevice `json:"devices"`
}
