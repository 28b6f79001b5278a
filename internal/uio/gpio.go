// internal/uio/gpio.go
package uio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
)

// Pins reads digital inputs through sysfs GPIO. It satisfies the address
// reader's pin contract.
type Pins struct {
	base string
}

// NewPins returns the /sys/class/gpio backed implementation.
func NewPins() *Pins {
	return &Pins{base: "/sys/class/gpio"}
}

// Request exports the pin and switches it to input. An already-exported
// pin is tolerated: the straps may be claimed by a leftover export, and
// exclusivity against a live owner is a hardware matter, not ours.
func (p *Pins) Request(id uint32, label string) error {
	_ = label // sysfs has no consumer labels
	if err := p.write("export", strconv.Itoa(int(id))); err != nil && !errors.Is(err, syscall.EBUSY) {
		return err
	}
	return p.write(fmt.Sprintf("gpio%d/direction", id), "in")
}

// Value samples the pin.
func (p *Pins) Value(id uint32) (int, error) {
	b, err := os.ReadFile(filepath.Join(p.base, fmt.Sprintf("gpio%d", id), "value"))
	if err != nil {
		return 0, err
	}
	if len(b) > 0 && b[0] == '1' {
		return 1, nil
	}
	return 0, nil
}

// Free unexports the pin, best effort.
func (p *Pins) Free(id uint32) {
	_ = p.write("unexport", strconv.Itoa(int(id)))
}

// write sends the string to a sysfs attribute under the gpio base.
func (p *Pins) write(name, value string) error {
	f, err := os.OpenFile(filepath.Join(p.base, name), os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(value)
	return err
}
