// internal/hwaddr/hwaddr.go
package hwaddr

import "fmt"

// Pins is the digital-input contract the address reader needs. Request
// claims a pin as an input, Value samples it, Free releases the claim.
type Pins interface {
	Request(id uint32, label string) error
	Value(id uint32) (int, error)
	Free(id uint32)
}

// Pin is one address strap: GPIO id plus the label used when claiming it.
type Pin struct {
	ID    uint32
	Label string
}

// DefaultPins are the five address straps on header P8, lowest address bit
// first (P8.31 .. P8.35).
var DefaultPins = [5]Pin{
	{ID: 10, Label: "gpio10"},
	{ID: 11, Label: "gpio11"},
	{ID: 9, Label: "gpio9"},
	{ID: 81, Label: "gpio81"},
	{ID: 8, Label: "gpio8"},
}

// Resolve samples the five address straps and assembles the 5-bit hardware
// address, pin i supplying bit i. The pins are claimed only for the
// duration of the call and freed on every exit path. Hardware exclusivity
// is the caller's problem: sampling while another owner drives the same
// GPIOs is undefined.
func Resolve(p Pins, pins [5]Pin) (uint8, error) {
	for i, pin := range pins {
		if err := p.Request(pin.ID, pin.Label); err != nil {
			for _, claimed := range pins[:i] {
				p.Free(claimed.ID)
			}
			return 0, fmt.Errorf("hwaddr: request %s: %w", pin.Label, err)
		}
	}
	defer func() {
		for _, pin := range pins {
			p.Free(pin.ID)
		}
	}()

	var addr uint8
	for i, pin := range pins {
		v, err := p.Value(pin.ID)
		if err != nil {
			return 0, fmt.Errorf("hwaddr: sample %s: %w", pin.Label, err)
		}
		if v != 0 {
			addr |= 1 << uint(i)
		}
	}
	return addr, nil
}
