// internal/handshake/handshake.go
package handshake

import "github.com/Blackrose/pru485/internal/intc"

// Result classifies one interrupt delivery.
type Result int

const (
	// NotOurs means the delivery belonged to another user of a shared
	// interrupt line and was left untouched.
	NotOurs Result = iota
	// Handled means the line was masked; for the transfer-complete line
	// the completion signal was also released.
	Handled
)

// Handshake owns the single-slot completion signal the write transaction
// blocks on. The interrupt path only masks and signals; draining the
// signal and re-arming the controller belong to the transaction side.
type Handshake struct {
	ctl      *intc.Controller
	done     chan struct{}
	complete int // host interrupt bit carrying transfer-complete
}

// New builds a handshake for the event-out index the firmware signals
// transfer completion on.
func New(ctl *intc.Controller, eventIndex int) *Handshake {
	return &Handshake{
		ctl:      ctl,
		done:     make(chan struct{}, 1),
		complete: intc.HostIntBase + eventIndex,
	}
}

// Reset drains any stale completion. Called once per session open, not per
// write.
func (h *Handshake) Reset() {
	select {
	case <-h.done:
	default:
	}
}

// Dispatch handles one interrupt delivery on host interrupt bit. A line
// that is neither enabled nor pending is not ours. Otherwise the line is
// masked so it cannot retrigger before the transaction re-arms it, and the
// transfer-complete line releases the completion signal.
func (h *Handshake) Dispatch(bit int) Result {
	if !h.ctl.Enabled(bit) && !h.ctl.Pending(bit) {
		return NotOurs
	}
	if bit == h.complete {
		select {
		case h.done <- struct{}{}:
		default:
		}
	}
	h.ctl.Disable(bit)
	return Handled
}

// Wait blocks until the coprocessor signals transfer completion. There is
// no timeout: if the firmware never raises the event the caller blocks
// forever.
func (h *Handshake) Wait() {
	<-h.done
}

// Rearm acknowledges the completion system event and unmasks the
// transfer-complete line. Dispatch leaves the line masked, so every
// completed wait must re-arm before the next cycle can signal.
func (h *Handshake) Rearm() {
	h.ctl.ClearSysEvent(intc.CompletionSysEvent)
	h.ctl.Reenable(h.complete)
}
