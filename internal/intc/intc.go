// internal/intc/intc.go
package intc

import "github.com/Blackrose/pru485/internal/shmem"

// PINTC register offsets, relative to the interrupt-controller base inside
// the PRUSS I/O region.
const (
	regHIEISR = 0x0034 // host interrupt enable, indexed set
	regHIDISR = 0x0038 // host interrupt disable, indexed set
	regSECR1  = 0x0280 // system event status/clear, events 32..63
	regHIPIR  = 0x0900 // host interrupt prioritized index, one per host int
	regHIER   = 0x1500 // host interrupt enable mask

	// hipirNoPend is set in a HIPIR register while nothing is pending on
	// that host interrupt.
	hipirNoPend = 0x80000000
)

// HostIntBase maps PRU event-out indices to host interrupt bits:
// EVTOUT0..7 arrive on host interrupts 2..9.
const HostIntBase = 2

// CompletionSysEvent is the system event the firmware raises to end a
// transfer cycle, as a bit position in SECR1.
const CompletionSysEvent = 20

// Controller drives the PRUSS interrupt-controller register block through
// the mapped I/O region. Register traffic goes through the window's
// byte-wide accessors; the PRUSS interconnect splits sub-word accesses to
// the PINTC block, so reads of a register's bytes are not a single atomic
// 32-bit cycle.
type Controller struct {
	io   shmem.Window // full PRUSS I/O region
	base int          // PINTC offset within the region
}

func New(io shmem.Window, base int) *Controller {
	return &Controller{io: io, base: base}
}

// Enabled reports whether host interrupt bit is enabled in HIER.
func (c *Controller) Enabled(bit int) bool {
	return c.io.U32(c.base+regHIER)&(1<<uint(bit)) != 0
}

// Pending reports whether host interrupt bit has a pending event.
func (c *Controller) Pending(bit int) bool {
	return c.io.U32(c.base+regHIPIR+(bit<<2))&hipirNoPend == 0
}

// Disable masks host interrupt bit. HIDISR takes the bit index.
func (c *Controller) Disable(bit int) {
	c.io.SetU32(c.base+regHIDISR, uint32(bit))
}

// Reenable unmasks host interrupt bit. The firmware interface expects the
// bit written as a mask here, not an index.
func (c *Controller) Reenable(bit int) {
	c.io.SetU32(c.base+regHIEISR, 1<<uint(bit))
}

// ClearSysEvent acknowledges system event ev in SECR1.
func (c *Controller) ClearSysEvent(ev int) {
	c.io.SetU32(c.base+regSECR1, 1<<uint(ev))
}
