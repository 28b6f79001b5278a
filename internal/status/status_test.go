// internal/status/status_test.go
package status

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncodeNamePacking(t *testing.T) {
	got := EncodeName("abcd")
	want := []uint16{
		uint16('a')<<8 | uint16('b'),
		uint16('c')<<8 | uint16('d'),
		0, 0, 0, 0, 0, 0,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("EncodeName mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeNameOddLength(t *testing.T) {
	got := EncodeName("abc")
	if got[1] != uint16('c')<<8 {
		t.Fatalf("odd trailing char = %#x, want high byte only", got[1])
	}
}

func TestEncodeNameTruncates(t *testing.T) {
	got := EncodeName("0123456789abcdefXYZ")
	if len(got) != SlotDeviceNameSlots {
		t.Fatalf("len = %d, want %d", len(got), SlotDeviceNameSlots)
	}
	if got[SlotDeviceNameSlots-1] != uint16('e')<<8|uint16('f') {
		t.Fatalf("last slot = %#x, overflow not truncated", got[SlotDeviceNameSlots-1])
	}
}

func TestEncodeBlock(t *testing.T) {
	regs := Encode(Snapshot{
		Health:         HealthError,
		LastErrorCode:  7,
		SecondsInError: 42,
	}, "dev")

	if len(regs) != SlotsPerDevice {
		t.Fatalf("block len = %d, want %d", len(regs), SlotsPerDevice)
	}
	if regs[SlotHealthCode] != HealthError {
		t.Fatalf("health slot = %d", regs[SlotHealthCode])
	}
	if regs[SlotLastErrorCode] != 7 {
		t.Fatalf("last error slot = %d", regs[SlotLastErrorCode])
	}
	if regs[SlotSecondsInError] != 42 {
		t.Fatalf("seconds slot = %d", regs[SlotSecondsInError])
	}
	// Reserved slots stay zero.
	for i := SlotSecondsInError + 1; i < SlotDeviceNameStart; i++ {
		if regs[i] != 0 {
			t.Fatalf("reserved slot %d = %d, want 0", i, regs[i])
		}
	}
	if regs[SlotDeviceNameStart] != uint16('d')<<8|uint16('e') {
		t.Fatalf("name slot = %#x", regs[SlotDeviceNameStart])
	}
}
