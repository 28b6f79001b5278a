// internal/shmem/layout.go
package shmem

// SharedRAMBase is where the shared-RAM window starts inside the PRUSS
// I/O region. Everything below is an offset into that window.
const SharedRAMBase = 0x10000

// Field offsets inside the shared-RAM window. These are protocol constants
// shared with the PRU firmware and MUST match it exactly.
const (
	StatusOffset     = 1  // handshake state byte
	BaudConfigOffset = 2  // BRG configuration register value
	BaudLSBOffset    = 3  // baud divisor, low byte
	BaudMSBOffset    = 4  // baud divisor, high byte
	SyncStopOffset   = 5  // master-only sync stop flag
	TimeoutOffset    = 6  // u32 LE timeout
	HWAddrOffset     = 24 // resolved 5-bit hardware address
	ModeOffset       = 25 // 'M' or 'S'
	ByteLengthOffset = 26 // u24 LE per-byte transmission time, ns
	SyncStepOffset   = 50 // 7-byte sync-step program
	CounterOffset    = 80 // u16 LE sync counter

	OutboundOffset = 0x64 // u32 LE length, then payload
	InboundOffset  = 0x1800
)

// InboundWindowSize is the fixed size of the inbound data window; every
// read cycle snapshots the whole window.
const InboundWindowSize = 0x3000

// Handshake states held in the status field.
const (
	StatusOld        = 0x55 // message consumed by the other side
	StatusNewMessage = 0x00 // new message received
	StatusToSend     = 0xff // outbound message staged
)

// Mode field values.
const (
	ModeMaster = 'M'
	ModeSlave  = 'S'
)
