// internal/baud/table.go
package baud

import (
	"errors"

	"github.com/Blackrose/pru485/internal/shmem"
)

// ErrUnsupportedRate is returned for rates outside the table.
var ErrUnsupportedRate = errors.New("baud: unsupported rate")

// Profile holds the register values for one supported rate. ByteTime is
// the time to move one byte on the wire in nanoseconds; the firmware's
// timing loop consumes it directly, which is why it is precomputed here
// instead of per transaction.
type Profile struct {
	Rate     uint32
	Config   uint8
	DivLSB   uint8
	DivMSB   uint8
	ByteTime uint32
}

// profiles is the full supported set. The values are firmware constants;
// the shared ByteTime for 14400 and 19200 is carried over from the
// firmware tables as-is.
var profiles = []Profile{
	{Rate: 6, Config: 0x28, DivLSB: 0x02, DivMSB: 0x00, ByteTime: 1667},        // 10000/6
	{Rate: 10, Config: 0x28, DivLSB: 0x01, DivMSB: 0x00, ByteTime: 1000},       // 10000/10
	{Rate: 12, Config: 0x24, DivLSB: 0x01, DivMSB: 0x00, ByteTime: 833},        // 10000/12
	{Rate: 9600, Config: 0x0a, DivLSB: 0x86, DivMSB: 0x01, ByteTime: 1041666},  // 100000000/96
	{Rate: 14400, Config: 0x07, DivLSB: 0x04, DivMSB: 0x01, ByteTime: 694444},  // 100000000/144
	{Rate: 19200, Config: 0x05, DivLSB: 0xc3, DivMSB: 0x00, ByteTime: 694444},  // 100000000/144
	{Rate: 38400, Config: 0x15, DivLSB: 0xc3, DivMSB: 0x00, ByteTime: 260416},  // 100000000/384
	{Rate: 57600, Config: 0x27, DivLSB: 0x04, DivMSB: 0x01, ByteTime: 173611},  // 100000000/576
	{Rate: 115200, Config: 0x09, DivLSB: 0x20, DivMSB: 0x00, ByteTime: 86805},  // 100000000/1152
}

// Lookup returns the profile for an exact rate match.
func Lookup(rate uint32) (Profile, error) {
	for _, p := range profiles {
		if p.Rate == rate {
			return p, nil
		}
	}
	return Profile{}, ErrUnsupportedRate
}

// Rates lists the supported rates in table order.
func Rates() []uint32 {
	out := make([]uint32, len(profiles))
	for i, p := range profiles {
		out[i] = p.Rate
	}
	return out
}

// Configure looks rate up and writes the profile into the shared-RAM
// window: config byte, divisor pair and the 3-byte byte time. All or
// nothing: a lookup miss leaves the window untouched.
func Configure(w shmem.Window, rate uint32) error {
	p, err := Lookup(rate)
	if err != nil {
		return err
	}
	w.SetU8(shmem.BaudConfigOffset, p.Config)
	w.SetU8(shmem.BaudLSBOffset, p.DivLSB)
	w.SetU8(shmem.BaudMSBOffset, p.DivMSB)
	w.SetU24(shmem.ByteLengthOffset, p.ByteTime)
	return nil
}
