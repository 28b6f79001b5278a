// internal/bridge/status_writer_test.go
package bridge

import (
	"testing"

	"github.com/Blackrose/pru485/internal/status"
)

func statusPlan() Plan {
	return Plan{
		Status: &StatusPlan{
			Endpoint:   "ep1",
			UnitID:     9,
			BaseSlot:   100,
			DeviceName: "pru485",
		},
	}
}

func TestStatusWriterDisabledWithoutPlan(t *testing.T) {
	if _, enabled := NewStatusWriter(Plan{}, nil); enabled {
		t.Fatalf("status writer enabled without a status plan")
	}
}

func TestStatusWriterFullBlockFirst(t *testing.T) {
	cli := &fakeClient{}
	sw, enabled := NewStatusWriter(statusPlan(), map[string]Client{"ep1": cli})
	if !enabled {
		t.Fatalf("status writer should be enabled")
	}

	snap := status.Snapshot{Health: status.HealthOK}
	if err := sw.WriteStatus(snap); err != nil {
		t.Fatalf("WriteStatus err=%v", err)
	}

	if len(cli.calls) != 1 {
		t.Fatalf("expected 1 full-block call, got %d", len(cli.calls))
	}
	c := cli.calls[0]
	if c.unitID != 9 || c.addr != 100 || len(c.regs) != status.SlotsPerDevice {
		t.Fatalf("full block call = %+v", c)
	}
	if c.regs[status.SlotHealthCode] != status.HealthOK {
		t.Fatalf("health slot = %d, want HealthOK", c.regs[status.SlotHealthCode])
	}
	// "pr" packs into the first name slot.
	if c.regs[status.SlotDeviceNameStart] != uint16('p')<<8|uint16('r') {
		t.Fatalf("name slot = %#x", c.regs[status.SlotDeviceNameStart])
	}
}

func TestStatusWriterDeltaAfterFull(t *testing.T) {
	cli := &fakeClient{}
	sw, _ := NewStatusWriter(statusPlan(), map[string]Client{"ep1": cli})

	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthOK}); err != nil {
		t.Fatalf("full write err=%v", err)
	}

	// Only the health slot changed: exactly one single-register delta.
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthError}); err != nil {
		t.Fatalf("delta write err=%v", err)
	}
	if len(cli.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(cli.calls))
	}
	c := cli.calls[1]
	if c.addr != 100+status.SlotHealthCode || len(c.regs) != 1 || c.regs[0] != status.HealthError {
		t.Fatalf("delta call = %+v", c)
	}

	// Unchanged snapshot writes nothing.
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthError}); err != nil {
		t.Fatalf("no-op write err=%v", err)
	}
	if len(cli.calls) != 2 {
		t.Fatalf("no-op snapshot produced writes")
	}
}

func TestStatusWriterReassertsAfterFailure(t *testing.T) {
	cli := &fakeClient{}
	sw, _ := NewStatusWriter(statusPlan(), map[string]Client{"ep1": cli})

	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthOK}); err != nil {
		t.Fatalf("full write err=%v", err)
	}

	cli.failNext = true
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthError}); err == nil {
		t.Fatalf("expected delta failure, got nil")
	}

	// Next successful write re-asserts the whole block.
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthError}); err != nil {
		t.Fatalf("re-assert write err=%v", err)
	}
	last := cli.calls[len(cli.calls)-1]
	if len(last.regs) != status.SlotsPerDevice {
		t.Fatalf("re-assert wrote %d regs, want full block", len(last.regs))
	}
	if last.regs[status.SlotDeviceNameStart] != uint16('p')<<8|uint16('r') {
		t.Fatalf("re-asserted block lost the device name: %#x", last.regs[status.SlotDeviceNameStart])
	}
}
