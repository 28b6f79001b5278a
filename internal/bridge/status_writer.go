// internal/bridge/status_writer.go
package bridge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Blackrose/pru485/internal/status"
)

// StatusWriter is the delivery-only contract for link status.
// It receives a snapshot and writes it verbatim.
type StatusWriter struct {
	plan *StatusPlan
	cli  Client

	needFull bool
	last     status.Snapshot
}

// NewStatusWriter builds a status writer if the plan enables status.
// A nil plan.Status disables it.
func NewStatusWriter(plan Plan, clients map[string]Client) (*StatusWriter, bool) {
	if plan.Status == nil {
		return nil, false
	}
	sp := plan.Status
	return &StatusWriter{
		plan:     sp,
		cli:      clients[sp.Endpoint],
		needFull: true, // full re-assert on first successful write
		last: status.Snapshot{
			Health: status.HealthUnknown,
		},
	}, true
}

// WriteStatus delivers a link status snapshot. On any write failure, the
// next successful call re-asserts the full block.
func (sw *StatusWriter) WriteStatus(s status.Snapshot) error {
	if sw == nil || sw.plan == nil {
		return errors.New("status writer: disabled")
	}
	if sw.cli == nil {
		return fmt.Errorf("status writer: missing client for endpoint %s", sw.plan.Endpoint)
	}

	base := sw.plan.BaseSlot
	unit := sw.plan.UnitID

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		regs := status.Encode(s, sw.plan.DeviceName)
		if err := sw.cli.WriteRegisters(unit, base, regs); err != nil {
			sw.needFull = true
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}
		sw.needFull = false
		sw.last = s
		return nil
	}

	// ------------------------------------------------------------
	// Delta writes, slot by slot
	// ------------------------------------------------------------
	var errs []string

	write := func(slot uint16, name string, got, want uint16, commit func()) {
		if got == want {
			return
		}
		if err := sw.cli.WriteRegisters(unit, base+slot, []uint16{want}); err != nil {
			errs = append(errs, fmt.Sprintf("%s write failed: %v", name, err))
			return
		}
		commit()
	}

	write(status.SlotHealthCode, "health", sw.last.Health, s.Health,
		func() { sw.last.Health = s.Health })
	write(status.SlotLastErrorCode, "last_error", sw.last.LastErrorCode, s.LastErrorCode,
		func() { sw.last.LastErrorCode = s.LastErrorCode })
	write(status.SlotSecondsInError, "seconds_in_error", sw.last.SecondsInError, s.SecondsInError,
		func() { sw.last.SecondsInError = s.SecondsInError })

	if len(errs) > 0 {
		// Any partial failure introduces doubt: re-assert on next success.
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}
	return nil
}
