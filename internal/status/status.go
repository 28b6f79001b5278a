// internal/status/status.go
package status

// Link status block layout. These values define the block's wire format
// and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of registers per status block.
const SlotsPerDevice = 20

// ---- SLOT INDICES ----

const (
	// SlotHealthCode holds the link health state.
	SlotHealthCode = 0
	// SlotLastErrorCode holds the last raw error code.
	SlotLastErrorCode = 1
	// SlotSecondsInError holds how long the link has been in error.
	SlotSecondsInError = 2
)

// Slots 3..10 are reserved.

// SlotDeviceNameStart is the first of the 8 name slots at the end of the
// block, 2 ASCII characters per slot.
const (
	SlotDeviceNameStart = 11
	SlotDeviceNameSlots = 8
)

// ---- HEALTH CODES ----

const (
	// HealthUnknown is the boot state before the first poll.
	HealthUnknown uint16 = 0
	// HealthOK means the last snapshot cycle succeeded.
	HealthOK uint16 = 1
	// HealthError means the last snapshot cycle failed.
	HealthError uint16 = 2
)

// Snapshot is exactly what the status writer is allowed to deliver. No
// logic, no memory of the past beyond current state.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16
}

// Encode packs a snapshot and device name into a full status block.
// No IO, no side effects.
func Encode(s Snapshot, deviceName string) []uint16 {
	regs := make([]uint16, SlotsPerDevice)
	regs[SlotHealthCode] = s.Health
	regs[SlotLastErrorCode] = s.LastErrorCode
	regs[SlotSecondsInError] = s.SecondsInError
	copy(regs[SlotDeviceNameStart:], EncodeName(deviceName))
	return regs
}

// EncodeName packs an ASCII name into the fixed name slots, two
// characters per register, first character in the high byte. Longer names
// are truncated, shorter ones zero-padded.
func EncodeName(name string) []uint16 {
	regs := make([]uint16, SlotDeviceNameSlots)
	for i := 0; i < len(name) && i < SlotDeviceNameSlots*2; i++ {
		slot := i / 2
		if i%2 == 0 {
			regs[slot] |= uint16(name[i]) << 8
		} else {
			regs[slot] |= uint16(name[i])
		}
	}
	return regs
}
