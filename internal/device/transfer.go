// internal/device/transfer.go
package device

import (
	"runtime"

	"github.com/Blackrose/pru485/internal/shmem"
)

// Write stages one outbound frame and drives a full transmit cycle: the
// length as a u32 prefix in the outbound buffer, the payload right after
// it, then the status byte flagged for send. The call blocks until the
// coprocessor raises its transfer-complete event; there is no timeout, a
// dead coprocessor blocks the caller forever. After waking, the pending
// event is acknowledged and the interrupt line re-enabled. In master mode
// the cycle only ends once the firmware has retired the message, so the
// status byte is polled back to the consumed state before returning.
//
// The completion signal is armed once per session, not per write. Writes
// issued back-to-back faster than the hardware completes can observe the
// previous cycle's completion.
func (s *Session) Write(p []byte) (int, error) {
	w, err := s.window()
	if err != nil {
		return 0, err
	}

	w.SetU32(shmem.OutboundOffset, uint32(len(p)))
	w.SetBytes(shmem.OutboundOffset+4, p)
	w.SetU8(shmem.StatusOffset, shmem.StatusToSend)

	s.d.hs.Wait()
	s.d.hs.Rearm()

	if w.U8(shmem.ModeOffset) == shmem.ModeMaster {
		for w.U8(shmem.StatusOffset) != shmem.StatusOld {
			runtime.Gosched()
		}
	}
	return len(p), nil
}

// Read snapshots the entire inbound window. No framing is applied: the
// status byte and any length prefix inside the window come back as-is.
// The returned slice is the session's staging buffer and is overwritten
// by the next Read.
func (s *Session) Read() ([]byte, error) {
	w, err := s.window()
	if err != nil {
		return nil, err
	}
	copy(s.buf[:], w[shmem.InboundOffset:shmem.InboundOffset+shmem.InboundWindowSize])
	return s.buf[:], nil
}
