// internal/device/device.go
package device

import (
	"sync"

	"github.com/Blackrose/pru485/internal/handshake"
	"github.com/Blackrose/pru485/internal/hwaddr"
	"github.com/Blackrose/pru485/internal/intc"
	"github.com/Blackrose/pru485/internal/shmem"
)

// Device owns one PRU-485 attachment: the mapped I/O region, the
// interrupt handshake and the address straps. All transactions go through
// a Session; at most one session is open at a time.
type Device struct {
	mu sync.Mutex // session exclusivity, held from Open to Close

	pins     hwaddr.Pins
	addrPins [5]hwaddr.Pin

	io    shmem.Window // full PRUSS I/O region; nil until Attach
	shram shmem.Window // shared-RAM window the firmware talks through
	hs    *handshake.Handshake
}

// New returns a device with no region attached. Transactions fail with
// ErrNotReady until Attach is called. pins may be nil when the hardware
// address straps are not wired; HardwareAddress then fails.
func New(pins hwaddr.Pins, addrPins [5]hwaddr.Pin) *Device {
	return &Device{pins: pins, addrPins: addrPins}
}

// Attach hands the device its mapped I/O region. pintcBase is the
// interrupt-controller offset within the region, eventIndex the event-out
// line the firmware signals transfer completion on.
func (d *Device) Attach(region shmem.Window, pintcBase, eventIndex int) {
	d.io = region
	d.shram = region.Sub(shmem.SharedRAMBase)
	d.hs = handshake.New(intc.New(region, pintcBase), eventIndex)
}

// HandleInterrupt feeds one interrupt delivery on host interrupt bit into
// the handshake. Deliveries before Attach are dropped.
func (d *Device) HandleInterrupt(bit int) handshake.Result {
	if d.hs == nil {
		return handshake.NotOurs
	}
	return d.hs.Dispatch(bit)
}

// Open claims the device session. It fails with ErrBusy while another
// session is live, and never blocks waiting for one. The completion
// signal is reset here, once per session. This lock serializes callers
// within the process; exclusivity across processes is held at the UIO
// node, which admits one mapping at a time.
func (d *Device) Open() (*Session, error) {
	if !d.mu.TryLock() {
		return nil, ErrBusy
	}
	if d.hs != nil {
		d.hs.Reset()
	}
	return &Session{d: d}, nil
}
