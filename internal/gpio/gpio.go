// Package gpio provides GPIO pin access with hardware abstraction.
// The real implementations use the Linux GPIO character device, the
// Broadcom register map via /dev/gpiomem, or periph.io.
// The fake implementation allows testing without hardware.
package gpio

import (
	"fmt"
	"strings"

	"github.com/warthog618/go-gpiocdev/device/rpi"
)

// Pin identifies a GPIO line by its offset on the chip (BCM numbering on a Pi).
type Pin int

// SwitchPin is physical header pin 3, which carries the board's fixed pull-up.
// Shorting it to ground (header pin 6) pulls it low.
const SwitchPin Pin = rpi.J8p3

// String returns the BCM name of the pin, e.g. "GPIO2".
func (p Pin) String() string {
	return fmt.Sprintf("GPIO%d", int(p))
}

// Direction is the data direction of a pin.
type Direction int

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	if d == Out {
		return "out"
	}
	return "in"
}

// Gateway exports, configures, reads and releases pins.
type Gateway interface {
	// Export makes the pin available for software control.
	Export(pin Pin) error

	// SetDirection sets an exported pin as input or output.
	SetDirection(pin Pin, dir Direction) error

	// Value returns the logic level of an exported pin (true = high).
	Value(pin Pin) (bool, error)

	// Unexport releases an exported pin.
	Unexport(pin Pin) error

	// Close releases backend resources. Pins still exported are released too.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendCdev   = "cdev"
	BackendRpio   = "rpio"
	BackendPeriph = "periph"
)

// DefaultChip is the GPIO character device for the Pi header.
const DefaultChip = "gpiochip0"

// Open returns the Gateway for the named backend. chip is only used by cdev.
func Open(backend, chip string) (Gateway, error) {
	switch strings.ToLower(backend) {
	case BackendCdev, "":
		if chip == "" {
			chip = DefaultChip
		}
		g, err := NewCdevGateway(chip)
		if err != nil {
			return nil, err
		}
		return g, nil
	case BackendRpio:
		g, err := NewRpioGateway()
		if err != nil {
			return nil, err
		}
		return g, nil
	case BackendPeriph:
		g, err := NewPeriphGateway()
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	return nil, fmt.Errorf("unknown gpio backend %q (want %s, %s or %s)",
		backend, BackendCdev, BackendRpio, BackendPeriph)
}

// ErrNotExported is returned when operating on a pin that was not exported.
type ErrNotExported struct {
	Pin Pin
}

func (e ErrNotExported) Error() string {
	return fmt.Sprintf("gpio: %s not exported", e.Pin)
}
