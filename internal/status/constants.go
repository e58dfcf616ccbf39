// internal/status/constants.go
package status

// Simulator Status Block layout constants.
// These values define the protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of holding registers per simulator.
const SlotsPerDevice = 24

// ---- SLOT INDICES ----

// SlotHealthCode holds the lifecycle health code.
const SlotHealthCode = 0

// SlotFlags holds FlagRunning | FlagAdapterInitialized.
const SlotFlags = 1

// SlotEndpointCount holds the number of configured endpoints.
const SlotEndpointCount = 2

// Counter totals are 32-bit, high word first.
const (
	SlotPdSent             = 3
	SlotPdReceived         = 5
	SlotMdRequestsSent     = 7
	SlotMdRepliesReceived  = 9
	SlotMdRequestsReceived = 11
	SlotMdRepliesSent      = 13
)

// SlotSecondsInError holds how long (seconds) the simulator has been in error.
const SlotSecondsInError = 15

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the status block.
const SlotDeviceNameStart = 16

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// ---- FLAGS ----

const (
	FlagRunning            uint16 = 1 << 0
	FlagAdapterInitialized uint16 = 1 << 1
)

// ---- HEALTH CODES ----

const (
	HealthUnknown  uint16 = 0 // idle / boot
	HealthOK       uint16 = 1 // running
	HealthError    uint16 = 2
	HealthStarting uint16 = 3 // initializing
	HealthStopped  uint16 = 4 // stopping or stopped
)
