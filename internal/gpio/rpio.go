//go:build linux

package gpio

import (
	"fmt"
	"sync"

	"github.com/stianeikeland/go-rpio"
)

// RpioGateway accesses pins through the Broadcom register map (/dev/gpiomem).
// The mapping is global to the process, so only one RpioGateway should exist.
type RpioGateway struct {
	mu       sync.Mutex
	exported map[Pin]bool
}

// NewRpioGateway maps the GPIO registers.
func NewRpioGateway() (*RpioGateway, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpio memory: %w", err)
	}
	return &RpioGateway{exported: make(map[Pin]bool)}, nil
}

// Export marks the pin as in use. Register access needs no per-pin request.
func (g *RpioGateway) Export(pin Pin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.exported[pin] {
		return fmt.Errorf("export %s: already exported", pin)
	}
	g.exported[pin] = true
	return nil
}

// SetDirection sets the pin mode. Outputs start low.
func (g *RpioGateway) SetDirection(pin Pin, dir Direction) error {
	if err := g.check(pin); err != nil {
		return err
	}
	p := rpio.Pin(pin)
	if dir == Out {
		p.Output()
		p.Low()
		return nil
	}
	p.Input()
	return nil
}

// Value returns true if the pin reads high.
func (g *RpioGateway) Value(pin Pin) (bool, error) {
	if err := g.check(pin); err != nil {
		return false, err
	}
	return rpio.Pin(pin).Read() == rpio.High, nil
}

// Unexport returns the pin to an input.
func (g *RpioGateway) Unexport(pin Pin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.exported[pin] {
		return ErrNotExported{Pin: pin}
	}
	rpio.Pin(pin).Input()
	delete(g.exported, pin)
	return nil
}

// Close releases exported pins and unmaps the registers.
func (g *RpioGateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for pin := range g.exported {
		rpio.Pin(pin).Input()
		delete(g.exported, pin)
	}
	if err := rpio.Close(); err != nil {
		return fmt.Errorf("close gpio memory: %w", err)
	}
	return nil
}

func (g *RpioGateway) check(pin Pin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.exported[pin] {
		return ErrNotExported{Pin: pin}
	}
	return nil
}
