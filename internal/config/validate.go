// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/Blackrose/pru485/internal/baud"
	"github.com/Blackrose/pru485/internal/shmem"
)

// SnapshotRegisters is how many 16-bit registers one inbound snapshot
// packs into.
const SnapshotRegisters = shmem.InboundWindowSize / 2

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {

	// ------------------------------------------------------------
	// DEVICE
	// ------------------------------------------------------------

	// addr_pins overrides the default straps; all or nothing.
	if n := len(cfg.Device.AddrPins); n != 0 && n != 5 {
		return fmt.Errorf("device: addr_pins needs exactly 5 gpio ids, got %d", n)
	}
	if cfg.Device.EventIndex != nil {
		if v := *cfg.Device.EventIndex; v < 0 || v > 7 {
			return fmt.Errorf("device: event_index %d out of range 0..7", v)
		}
	}
	if cfg.Device.MemSize != 0 {
		min := shmem.SharedRAMBase + shmem.InboundOffset + shmem.InboundWindowSize
		if cfg.Device.MemSize < min {
			return fmt.Errorf("device: mem_size %#x below the shared-RAM window end %#x",
				cfg.Device.MemSize, min)
		}
	}

	// ------------------------------------------------------------
	// SERIAL
	// ------------------------------------------------------------

	switch cfg.Serial.Mode {
	case "master", "slave":
	default:
		return fmt.Errorf("serial: mode must be \"master\" or \"slave\", got %q", cfg.Serial.Mode)
	}
	if cfg.Serial.Baud != 0 {
		if _, err := baud.Lookup(cfg.Serial.Baud); err != nil {
			return fmt.Errorf("serial: baud %d not in supported set %v", cfg.Serial.Baud, baud.Rates())
		}
	}

	// ------------------------------------------------------------
	// BRIDGE TARGET GEOMETRY
	// ------------------------------------------------------------

	if cfg.Bridge.PollIntervalMs < 0 {
		return fmt.Errorf("bridge: poll_interval_ms must not be negative")
	}

	for _, t := range cfg.Bridge.Targets {
		if t.Endpoint == "" {
			return fmt.Errorf("bridge: target without endpoint")
		}
		if t.Quantity > SnapshotRegisters {
			return fmt.Errorf("bridge: target %s quantity %d exceeds snapshot size %d registers",
				t.Endpoint, t.Quantity, SnapshotRegisters)
		}
	}

	// ------------------------------------------------------------
	// LINK STATUS BLOCK (OPT-IN)
	// ------------------------------------------------------------

	if cfg.Bridge.DeviceName != "" {
		for i := 0; i < len(cfg.Bridge.DeviceName); i++ {
			if cfg.Bridge.DeviceName[i] > 0x7F {
				return fmt.Errorf("bridge: device_name must contain ASCII characters only")
			}
		}
	}

	if cfg.Bridge.StatusSlot != nil {
		if len(cfg.Bridge.Targets) == 0 {
			return fmt.Errorf("bridge: status_slot is set but no targets are defined")
		}

		slot := *cfg.Bridge.StatusSlot

		// key = endpoint | status_unit_id | slot
		statusOwner := make(map[string]bool)
		for _, t := range cfg.Bridge.Targets {
			if t.StatusUnitID == nil {
				return fmt.Errorf("bridge: status_slot is set but target %s has no status_unit_id", t.Endpoint)
			}
			key := fmt.Sprintf("%s|%d|%d", t.Endpoint, *t.StatusUnitID, slot)
			if statusOwner[key] {
				return fmt.Errorf("bridge: status slot collision at endpoint=%s unit=%d slot=%d",
					t.Endpoint, *t.StatusUnitID, slot)
			}
			statusOwner[key] = true
		}
	}

	return nil
}
