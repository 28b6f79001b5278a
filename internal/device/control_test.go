// internal/device/control_test.go
package device

import (
	"errors"
	"testing"

	"github.com/Blackrose/pru485/internal/baud"
	"github.com/Blackrose/pru485/internal/hwaddr"
	"github.com/Blackrose/pru485/internal/shmem"
)

func openSession(t *testing.T, pins hwaddr.Pins, straps [5]hwaddr.Pin) (*Session, shmem.Window, shmem.Window) {
	t.Helper()
	d, region, shram := newAttached(pins, straps)
	s, err := d.Open()
	if err != nil {
		t.Fatalf("Open err=%v", err)
	}
	t.Cleanup(s.Close)
	return s, region, shram
}

func TestSetModeMasterThenSlave(t *testing.T) {
	s, _, shram := openSession(t, nil, hwaddr.DefaultPins)

	if err := s.SetMode(shmem.ModeMaster); err != nil {
		t.Fatalf("SetMode(M) err=%v", err)
	}
	if got := shram.U8(shmem.ModeOffset); got != shmem.ModeMaster {
		t.Fatalf("mode = %#x, want 'M'", got)
	}

	if err := s.SetMode(shmem.ModeSlave); err != nil {
		t.Fatalf("SetMode(S) err=%v", err)
	}
	if got := shram.U8(shmem.ModeOffset); got != shmem.ModeSlave {
		t.Fatalf("mode = %#x, want 'S'", got)
	}
	if got := shram.U8(shmem.StatusOffset); got != shmem.StatusOld {
		t.Fatalf("status = %#x, want StatusOld after slave switch", got)
	}
}

func TestSetModeRejectsOtherValues(t *testing.T) {
	s, _, shram := openSession(t, nil, hwaddr.DefaultPins)

	shram.SetU8(shmem.ModeOffset, 0x11)
	shram.SetU8(shmem.StatusOffset, 0xab)

	for _, m := range []byte{'X', 0, 'm', 's', 0xff} {
		if err := s.SetMode(m); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("SetMode(%#x) err=%v, want ErrInvalidArgument", m, err)
		}
	}
	if shram.U8(shmem.ModeOffset) != 0x11 || shram.U8(shmem.StatusOffset) != 0xab {
		t.Fatalf("rejected SetMode modified the region")
	}
}

func TestSyncStopRequiresMaster(t *testing.T) {
	s, _, shram := openSession(t, nil, hwaddr.DefaultPins)

	shram.SetU8(shmem.ModeOffset, shmem.ModeSlave)
	shram.SetU8(shmem.SyncStopOffset, 0xff)
	if err := s.SyncStop(); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("SyncStop in slave mode err=%v, want ErrInvalidArgument", err)
	}
	if got := shram.U8(shmem.SyncStopOffset); got != 0xff {
		t.Fatalf("failed SyncStop wrote the stop field")
	}

	shram.SetU8(shmem.ModeOffset, shmem.ModeMaster)
	if err := s.SyncStop(); err != nil {
		t.Fatalf("SyncStop in master mode err=%v", err)
	}
	if got := shram.U8(shmem.SyncStopOffset); got != 0 {
		t.Fatalf("stop field = %#x, want 0", got)
	}
}

func TestSyncStepWritesProgram(t *testing.T) {
	s, _, shram := openSession(t, nil, hwaddr.DefaultPins)

	if err := s.SyncStep(); err != nil {
		t.Fatalf("SyncStep err=%v", err)
	}
	want := []byte{0x06, 0xff, 0x50, 0x00, 0x01, 0x0c, 0xa4}
	for i, b := range want {
		if got := shram.U8(shmem.SyncStepOffset + i); got != b {
			t.Fatalf("sync step byte %d = %#x, want %#x", i, got, b)
		}
	}
}

func TestCleanZeroesBaseRegionOnly(t *testing.T) {
	s, region, shram := openSession(t, nil, hwaddr.DefaultPins)

	for i := 0; i < 200; i++ {
		region.SetU8(i, 0xff)
	}
	shram.SetU8(0, 0xaa)

	if err := s.Clean(); err != nil {
		t.Fatalf("Clean err=%v", err)
	}
	for i := 0; i < 100; i++ {
		if region.U8(i) != 0 {
			t.Fatalf("base byte %d not zeroed", i)
		}
	}
	if region.U8(100) != 0xff {
		t.Fatalf("Clean ran past 100 bytes")
	}
	// Clean addresses the base region, not the shared-RAM window.
	if shram.U8(0) != 0xaa {
		t.Fatalf("Clean touched the shared-RAM window")
	}
}

func TestSetCounter(t *testing.T) {
	s, _, shram := openSession(t, nil, hwaddr.DefaultPins)

	if err := s.SetCounter(0x1234); err != nil {
		t.Fatalf("SetCounter err=%v", err)
	}
	if shram.U8(shmem.CounterOffset) != 0x34 || shram.U8(shmem.CounterOffset+1) != 0x12 {
		t.Fatalf("counter bytes = %#x %#x, want 34 12",
			shram.U8(shmem.CounterOffset), shram.U8(shmem.CounterOffset+1))
	}
}

func TestSetTimeoutScalesAndEncodes(t *testing.T) {
	s, _, shram := openSession(t, nil, hwaddr.DefaultPins)

	if err := s.SetTimeout(2); err != nil {
		t.Fatalf("SetTimeout err=%v", err)
	}
	// 2 * 66600 = 133200 = 0x00020850, little-endian across four lanes.
	want := []byte{0x50, 0x08, 0x02, 0x00}
	for i, b := range want {
		if got := shram.U8(shmem.TimeoutOffset + i); got != b {
			t.Fatalf("timeout byte %d = %#x, want %#x", i, got, b)
		}
	}
}

func TestSetBaudRateUnsupported(t *testing.T) {
	s, _, _ := openSession(t, nil, hwaddr.DefaultPins)

	if err := s.SetBaudRate(4800); !errors.Is(err, baud.ErrUnsupportedRate) {
		t.Fatalf("SetBaudRate(4800) err=%v, want ErrUnsupportedRate", err)
	}
}

func TestHardwareAddress(t *testing.T) {
	pins := &stubPins{values: map[uint32]int{31: 1, 32: 0, 33: 1, 34: 0, 35: 1}}
	straps := [5]hwaddr.Pin{
		{ID: 31, Label: "gpio31"},
		{ID: 32, Label: "gpio32"},
		{ID: 33, Label: "gpio33"},
		{ID: 34, Label: "gpio34"},
		{ID: 35, Label: "gpio35"},
	}
	s, _, shram := openSession(t, pins, straps)

	addr, err := s.HardwareAddress()
	if err != nil {
		t.Fatalf("HardwareAddress err=%v", err)
	}
	if addr != 21 {
		t.Fatalf("addr = %d, want 21", addr)
	}
	if got := shram.U8(shmem.HWAddrOffset); got != 21 {
		t.Fatalf("hw_address field = %d, want 21", got)
	}
}

func TestHardwareAddressWithoutPins(t *testing.T) {
	s, _, _ := openSession(t, nil, hwaddr.DefaultPins)

	if _, err := s.HardwareAddress(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("HardwareAddress err=%v, want ErrNotReady", err)
	}
}

func TestControlDispatch(t *testing.T) {
	pins := &stubPins{values: map[uint32]int{31: 1, 32: 0, 33: 1, 34: 0, 35: 1}}
	straps := [5]hwaddr.Pin{
		{ID: 31}, {ID: 32}, {ID: 33}, {ID: 34}, {ID: 35},
	}
	s, _, shram := openSession(t, pins, straps)

	if _, err := s.Control(CmdSetMode, 'M'); err != nil {
		t.Fatalf("Control(SetMode) err=%v", err)
	}
	if got := shram.U8(shmem.ModeOffset); got != shmem.ModeMaster {
		t.Fatalf("mode = %#x, want 'M'", got)
	}

	v, err := s.Control(CmdHardwareAddress, 0)
	if err != nil {
		t.Fatalf("Control(HardwareAddress) err=%v", err)
	}
	if v != 21 {
		t.Fatalf("Control(HardwareAddress) = %d, want 21", v)
	}

	if _, err := s.Control(Command(99), 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Control(99) err=%v, want ErrInvalidArgument", err)
	}
}

// stubPins is a minimal in-memory pin bank.
type stubPins struct {
	values map[uint32]int
}

func (p *stubPins) Request(id uint32, label string) error { return nil }
func (p *stubPins) Value(id uint32) (int, error)          { return p.values[id], nil }
func (p *stubPins) Free(id uint32)                        {}
