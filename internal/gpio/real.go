//go:build linux

package gpio

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"
)

// consumer labels our line requests in gpioinfo output.
const consumer = "switchmypi"

// CdevGateway accesses pins through the Linux GPIO character device.
// Exporting a pin requests its line; unexporting closes the request.
type CdevGateway struct {
	mu    sync.Mutex
	chip  *gpiocdev.Chip
	lines map[Pin]*gpiocdev.Line
}

// NewCdevGateway opens the named GPIO chip, e.g. "gpiochip0".
func NewCdevGateway(chip string) (*CdevGateway, error) {
	c, err := gpiocdev.NewChip(chip, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chip, err)
	}
	return &CdevGateway{
		chip:  c,
		lines: make(map[Pin]*gpiocdev.Line),
	}, nil
}

// Export requests the line, leaving its direction as is until SetDirection.
func (g *CdevGateway) Export(pin Pin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.lines[pin]; ok {
		return fmt.Errorf("export %s: already exported", pin)
	}
	l, err := g.chip.RequestLine(int(pin), gpiocdev.AsIs)
	if err != nil {
		return fmt.Errorf("export %s: %w", pin, err)
	}
	g.lines[pin] = l
	return nil
}

// SetDirection reconfigures the line. Outputs start low.
func (g *CdevGateway) SetDirection(pin Pin, dir Direction) error {
	l, err := g.line(pin)
	if err != nil {
		return err
	}
	if dir == Out {
		err = l.Reconfigure(gpiocdev.AsOutput(0))
	} else {
		err = l.Reconfigure(gpiocdev.AsInput)
	}
	if err != nil {
		return fmt.Errorf("set %s direction %s: %w", pin, dir, err)
	}
	return nil
}

// Value returns true if the line is active (high).
func (g *CdevGateway) Value(pin Pin) (bool, error) {
	l, err := g.line(pin)
	if err != nil {
		return false, err
	}
	v, err := l.Value()
	if err != nil {
		return false, fmt.Errorf("read %s: %w", pin, err)
	}
	return v == 1, nil
}

// Unexport returns the line to an input and releases the request.
func (g *CdevGateway) Unexport(pin Pin) error {
	g.mu.Lock()
	l, ok := g.lines[pin]
	delete(g.lines, pin)
	g.mu.Unlock()
	if !ok {
		return ErrNotExported{Pin: pin}
	}
	return releaseLine(pin, l)
}

// Close releases any lines still requested and closes the chip.
func (g *CdevGateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var errs []error
	for pin, l := range g.lines {
		if err := releaseLine(pin, l); err != nil {
			errs = append(errs, err)
		}
		delete(g.lines, pin)
	}
	if g.chip != nil {
		if err := g.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
		g.chip = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func (g *CdevGateway) line(pin Pin) (*gpiocdev.Line, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.lines[pin]
	if !ok {
		return nil, ErrNotExported{Pin: pin}
	}
	return l, nil
}

// releaseLine leaves the line as an input so nothing is driven after exit.
func releaseLine(pin Pin, l *gpiocdev.Line) error {
	var errs []error
	if err := l.Reconfigure(gpiocdev.AsInput); err != nil {
		errs = append(errs, fmt.Errorf("reconfigure %s: %w", pin, err))
	}
	if err := l.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close %s: %w", pin, err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("unexport %s: %v", pin, errs)
	}
	return nil
}
