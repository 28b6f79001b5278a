// internal/device/control.go
package device

import (
	"fmt"

	"github.com/Blackrose/pru485/internal/baud"
	"github.com/Blackrose/pru485/internal/hwaddr"
	"github.com/Blackrose/pru485/internal/shmem"
)

// Command numbers the control operations. The values are wire-stable:
// they match the ioctl numbering of the kernel driver this package
// replaces.
type Command uint32

const (
	CmdClean Command = iota + 10
	CmdSetMode
	CmdSyncStep
	CmdSetCounter
	CmdHardwareAddress
	CmdSetBaudRate
	CmdSetTimeout
)

// syncStepProgram is the fixed sync-step block. It is opaque to the host;
// the firmware interprets it.
var syncStepProgram = [7]byte{0x06, 0xff, 0x50, 0x00, 0x01, 0x0c, 0xa4}

const (
	cleanLength = 100

	// timeoutScale converts caller ticks into the firmware's timeout
	// unit.
	timeoutScale = 66600
)

// SetMode selects the firmware role, 'M' (master) or 'S' (slave), and
// stops any running sync cycle. A slave start also marks the current
// message consumed so the firmware does not replay it.
func (s *Session) SetMode(m byte) error {
	w, err := s.window()
	if err != nil {
		return err
	}
	if m != shmem.ModeMaster && m != shmem.ModeSlave {
		return fmt.Errorf("%w: mode %q", ErrInvalidArgument, m)
	}
	w.SetU8(shmem.ModeOffset, m)
	// Sync stop only applies to masters; the slave path falls through.
	_ = s.SyncStop()
	if m == shmem.ModeSlave {
		w.SetU8(shmem.StatusOffset, shmem.StatusOld)
	}
	return nil
}

// SyncStop clears the sync stop flag. Master-only: any other mode value
// in the region is rejected.
func (s *Session) SyncStop() error {
	w, err := s.window()
	if err != nil {
		return err
	}
	if w.U8(shmem.ModeOffset) != shmem.ModeMaster {
		return fmt.Errorf("%w: sync stop requires master mode", ErrInvalidArgument)
	}
	w.SetU8(shmem.SyncStopOffset, 0)
	return nil
}

// SyncStep loads the fixed sync-step program. Always succeeds.
func (s *Session) SyncStep() error {
	w, err := s.window()
	if err != nil {
		return err
	}
	w.SetBytes(shmem.SyncStepOffset, syncStepProgram[:])
	return nil
}

// Clean zeroes the first 100 bytes of the device's I/O region. Unlike
// every other command this addresses the base region, not the shared-RAM
// window.
func (s *Session) Clean() error {
	w, err := s.ioWindow()
	if err != nil {
		return err
	}
	for i := 0; i < cleanLength; i++ {
		w.SetU8(i, 0)
	}
	return nil
}

// SetCounter writes the sync counter.
func (s *Session) SetCounter(n uint16) error {
	w, err := s.window()
	if err != nil {
		return err
	}
	w.SetU16(shmem.CounterOffset, n)
	return nil
}

// SetTimeout scales n into the firmware's timeout unit and writes it.
func (s *Session) SetTimeout(n uint32) error {
	w, err := s.window()
	if err != nil {
		return err
	}
	w.SetU32(shmem.TimeoutOffset, n*timeoutScale)
	return nil
}

// SetBaudRate applies the timing profile for rate. Unsupported rates
// fail with baud.ErrUnsupportedRate and leave the region untouched.
func (s *Session) SetBaudRate(rate uint32) error {
	w, err := s.window()
	if err != nil {
		return err
	}
	return baud.Configure(w, rate)
}

// HardwareAddress samples the address straps and publishes the result to
// the firmware.
func (s *Session) HardwareAddress() (uint8, error) {
	w, err := s.window()
	if err != nil {
		return 0, err
	}
	if s.d.pins == nil {
		return 0, fmt.Errorf("%w: no address pins", ErrNotReady)
	}
	addr, err := hwaddr.Resolve(s.d.pins, s.d.addrPins)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrResourceFault, err)
	}
	w.SetU8(shmem.HWAddrOffset, addr)
	return addr, nil
}

// Control dispatches one numbered command with its integer argument and
// returns the command's result value, if any.
func (s *Session) Control(cmd Command, arg uint32) (uint32, error) {
	switch cmd {
	case CmdClean:
		return 0, s.Clean()
	case CmdSetMode:
		return 0, s.SetMode(byte(arg))
	case CmdSyncStep:
		return 0, s.SyncStep()
	case CmdSetCounter:
		return 0, s.SetCounter(uint16(arg))
	case CmdHardwareAddress:
		addr, err := s.HardwareAddress()
		return uint32(addr), err
	case CmdSetBaudRate:
		return 0, s.SetBaudRate(arg)
	case CmdSetTimeout:
		return 0, s.SetTimeout(arg)
	default:
		return 0, fmt.Errorf("%w: unknown command %d", ErrInvalidArgument, cmd)
	}
}
