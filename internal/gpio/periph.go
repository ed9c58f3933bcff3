package gpio

import (
	"fmt"
	"sync"

	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// PeriphGateway accesses pins through periph.io's host drivers, which pick
// the best available driver for the board (character device, sysfs or
// register access).
type PeriphGateway struct {
	mu   sync.Mutex
	pins map[Pin]pgpio.PinIO
}

// NewPeriphGateway initialises the periph host drivers.
func NewPeriphGateway() (*PeriphGateway, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	return &PeriphGateway{pins: make(map[Pin]pgpio.PinIO)}, nil
}

// Export looks the pin up in the periph registry by its BCM name.
func (g *PeriphGateway) Export(pin Pin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.pins[pin]; ok {
		return fmt.Errorf("export %s: already exported", pin)
	}
	p := gpioreg.ByName(pin.String())
	if p == nil {
		return fmt.Errorf("export %s: no such pin", pin)
	}
	g.pins[pin] = p
	return nil
}

// SetDirection configures the pin. The input keeps the board's pull setting;
// outputs start low.
func (g *PeriphGateway) SetDirection(pin Pin, dir Direction) error {
	p, err := g.pin(pin)
	if err != nil {
		return err
	}
	if dir == Out {
		err = p.Out(pgpio.Low)
	} else {
		err = p.In(pgpio.PullNoChange, pgpio.NoEdge)
	}
	if err != nil {
		return fmt.Errorf("set %s direction %s: %w", pin, dir, err)
	}
	return nil
}

// Value returns true if the pin reads high.
func (g *PeriphGateway) Value(pin Pin) (bool, error) {
	p, err := g.pin(pin)
	if err != nil {
		return false, err
	}
	return p.Read() == pgpio.High, nil
}

// Unexport halts any pin activity and forgets the pin.
func (g *PeriphGateway) Unexport(pin Pin) error {
	g.mu.Lock()
	p, ok := g.pins[pin]
	delete(g.pins, pin)
	g.mu.Unlock()
	if !ok {
		return ErrNotExported{Pin: pin}
	}
	if err := p.Halt(); err != nil {
		return fmt.Errorf("unexport %s: %w", pin, err)
	}
	return nil
}

// Close halts any pins still exported.
func (g *PeriphGateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	var errs []error
	for pin, p := range g.pins {
		if err := p.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt %s: %w", pin, err))
		}
		delete(g.pins, pin)
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func (g *PeriphGateway) pin(pin Pin) (pgpio.PinIO, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.pins[pin]
	if !ok {
		return nil, ErrNotExported{Pin: pin}
	}
	return p, nil
}
