// internal/bridge/types.go
package bridge

import "time"

// SnapshotResult is one inbound-window snapshot produced by a poll cycle.
type SnapshotResult struct {
	At   time.Time
	Data []byte // nil when Err is set
	Err  error  // non-nil means the poll cycle failed
}

// Target is one Modbus destination for snapshot replication.
type Target struct {
	Endpoint string
	UnitID   uint8
	Address  uint16 // first destination register
	Quantity uint16 // registers replicated from the snapshot head
}

// StatusPlan describes where the link status block lives, when enabled.
type StatusPlan struct {
	Endpoint   string
	UnitID     uint8
	BaseSlot   uint16
	DeviceName string
}

// Plan is the fully-built replication plan.
type Plan struct {
	Targets []Target
	Status  *StatusPlan // nil = status disabled
}

// Client is the register-write contract the replication side needs.
type Client interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}
