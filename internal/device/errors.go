// internal/device/errors.go
package device

import "errors"

var (
	// ErrBusy means the single device session is already held.
	ErrBusy = errors.New("device: session already open")

	// ErrInvalidArgument rejects a malformed control argument or a
	// control command whose preconditions are not met.
	ErrInvalidArgument = errors.New("device: invalid argument")

	// ErrNotReady means no coprocessor region is attached yet.
	ErrNotReady = errors.New("device: no coprocessor attached")

	// ErrClosed rejects transactions on a released session.
	ErrClosed = errors.New("device: session closed")

	// ErrResourceFault wraps collaborator failures such as pin
	// acquisition errors.
	ErrResourceFault = errors.New("device: resource fault")
)
