// internal/uio/uio.go
package uio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/Blackrose/pru485/internal/shmem"
)

// ErrBusy means another process already holds the device node.
var ErrBusy = errors.New("uio: device node held by another process")

// permissionWait bounds how long Open retries a node that udev has not
// chowned yet.
const permissionWait = 2 * time.Second

// Device is one opened UIO node: a read/write mapping of its first memory
// region plus the node's interrupt counter stream.
type Device struct {
	f   *os.File
	mem []byte
}

// Open maps memSize bytes of the UIO node at path. The node is locked
// exclusively for the life of the mapping, so a second process (or a
// second open in the same process) fails with ErrBusy until Close. The
// same file serves the interrupt stream; see ServeIRQ.
func Open(path string, memSize int) (*Device, error) {
	f, err := openWritable(path)
	if err != nil {
		return nil, fmt.Errorf("uio: open %s: %w", path, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if err == unix.EWOULDBLOCK {
			return nil, fmt.Errorf("uio: open %s: %w", path, ErrBusy)
		}
		return nil, fmt.Errorf("uio: flock %s: %w", path, err)
	}
	mem, err := unix.Mmap(int(f.Fd()), 0, memSize,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("uio: mmap %s: %w", path, err)
	}
	return &Device{f: f, mem: mem}, nil
}

// Window returns the mapped I/O region.
func (d *Device) Window() shmem.Window {
	return shmem.Window(d.mem)
}

// ServeIRQ blocks on the node's interrupt counter and hands every
// delivery to dispatch with the given host interrupt bit. It returns when
// the node is closed.
func (d *Device) ServeIRQ(bit int, dispatch func(bit int)) {
	var count [4]byte
	for {
		if _, err := io.ReadFull(d.f, count[:]); err != nil {
			return
		}
		dispatch(bit)
	}
}

// Close unmaps the region and closes the node, stopping ServeIRQ.
func (d *Device) Close() error {
	var err error
	if d.mem != nil {
		err = unix.Munmap(d.mem)
		d.mem = nil
	}
	if cerr := d.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// openWritable retries while the node exists but udev has not made it
// writable yet.
func openWritable(path string) (*os.File, error) {
	var f *os.File
	var err error
	sl := time.Millisecond
	for waited := time.Duration(0); waited < permissionWait; waited += sl {
		f, err = os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0660)
		if err == nil || !os.IsPermission(err) {
			break
		}
		time.Sleep(sl)
	}
	return f, err
}
