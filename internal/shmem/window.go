// internal/shmem/window.go
package shmem

// Window is a byte-addressable view of mapped device memory. Multi-byte
// accessors are little-endian, matching the firmware's layout, and are
// issued as individual byte loads and stores; peripherals that require
// native word-width bus cycles need their own access path. Offsets are
// not bounds-checked against named fields; handing in a window shorter
// than the fields addressed through it is a caller bug, not a runtime
// condition.
type Window []byte

// Sub returns the window starting at off.
func (w Window) Sub(off int) Window {
	return Window(w[off:])
}

func (w Window) U8(off int) uint8 {
	return w[off]
}

func (w Window) SetU8(off int, v uint8) {
	w[off] = v
}

func (w Window) U16(off int) uint16 {
	return uint16(w[off]) | uint16(w[off+1])<<8
}

func (w Window) SetU16(off int, v uint16) {
	w[off] = uint8(v)
	w[off+1] = uint8(v >> 8)
}

func (w Window) U24(off int) uint32 {
	return uint32(w[off]) | uint32(w[off+1])<<8 | uint32(w[off+2])<<16
}

func (w Window) SetU24(off int, v uint32) {
	w[off] = uint8(v)
	w[off+1] = uint8(v >> 8)
	w[off+2] = uint8(v >> 16)
}

func (w Window) U32(off int) uint32 {
	return uint32(w[off]) | uint32(w[off+1])<<8 |
		uint32(w[off+2])<<16 | uint32(w[off+3])<<24
}

func (w Window) SetU32(off int, v uint32) {
	w[off] = uint8(v)
	w[off+1] = uint8(v >> 8)
	w[off+2] = uint8(v >> 16)
	w[off+3] = uint8(v >> 24)
}

// SetBytes copies p into the window at off. Like copy, it stops at the end
// of the window.
func (w Window) SetBytes(off int, p []byte) {
	copy(w[off:], p)
}
