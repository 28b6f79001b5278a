// internal/bridge/writer.go
package bridge

import (
	"errors"
	"fmt"
	"strings"
)

// maxRegistersPerWrite is the Modbus write-multiple-registers ceiling per
// request; larger target quantities are chunked.
const maxRegistersPerWrite = 123

// Writer replicates snapshots into the plan's targets.
type Writer struct {
	plan    Plan
	clients map[string]Client
}

func NewWriter(plan Plan, clients map[string]Client) *Writer {
	return &Writer{plan: plan, clients: clients}
}

// Write delivers one snapshot to every target. Failed targets do not stop
// the others; all failures come back joined. A failed poll cycle writes
// nothing.
func (w *Writer) Write(res SnapshotResult) error {
	if res.Err != nil {
		return nil
	}

	var errs []string

	for _, tgt := range w.plan.Targets {
		cli := w.clients[tgt.Endpoint]
		if cli == nil {
			errs = append(errs, fmt.Sprintf("writer: missing client for endpoint %s", tgt.Endpoint))
			continue
		}

		regs := PackRegisters(res.Data, int(tgt.Quantity))

		for off := 0; off < len(regs); off += maxRegistersPerWrite {
			end := off + maxRegistersPerWrite
			if end > len(regs) {
				end = len(regs)
			}
			addr := tgt.Address + uint16(off)
			if err := cli.WriteRegisters(tgt.UnitID, addr, regs[off:end]); err != nil {
				errs = append(errs, fmt.Sprintf(
					"writer: ep=%s unit=%d addr=%d err=%v",
					tgt.Endpoint, tgt.UnitID, addr, err,
				))
				break
			}
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}
	return nil
}

// PackRegisters folds snapshot bytes into qty 16-bit registers, two bytes
// per register, first byte in the high half (Modbus order). A short
// snapshot zero-pads.
func PackRegisters(data []byte, qty int) []uint16 {
	regs := make([]uint16, qty)
	for i := range regs {
		hi, lo := 2*i, 2*i+1
		if hi < len(data) {
			regs[i] = uint16(data[hi]) << 8
		}
		if lo < len(data) {
			regs[i] |= uint16(data[lo])
		}
	}
	return regs
}
