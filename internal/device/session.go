// internal/device/session.go
package device

import "github.com/Blackrose/pru485/internal/shmem"

// Session is the exclusive owner of the device between Open and Close.
// Sessions are not safe for concurrent use: the protocol is one
// transaction at a time.
type Session struct {
	d      *Device
	closed bool

	// inbound staging area, overwritten wholesale by every Read
	buf [shmem.InboundWindowSize]byte
}

// Close releases the session unconditionally. Closing twice is a no-op.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.d.mu.Unlock()
}

// Window exposes the shared-RAM window for diagnostics. Transactions
// should go through the typed operations instead.
func (s *Session) Window() (shmem.Window, error) {
	return s.window()
}

// window returns the shared-RAM window after the session/attachment
// checks every transaction runs.
func (s *Session) window() (shmem.Window, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.d.shram == nil {
		return nil, ErrNotReady
	}
	return s.d.shram, nil
}

// ioWindow returns the base I/O region; only Clean addresses it.
func (s *Session) ioWindow() (shmem.Window, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.d.io == nil {
		return nil, ErrNotReady
	}
	return s.d.io, nil
}
