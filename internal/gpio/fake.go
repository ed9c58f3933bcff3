package gpio

import (
	"errors"
	"strings"
	"sync"
)

// FakeGateway is a test double that returns scripted pin values and records
// every call made against it.
type FakeGateway struct {
	mu sync.Mutex

	// Values contains scripted pin levels to return.
	// Each call to Value() consumes the next one.
	Values []bool

	// index tracks current position in Values
	index int

	// Exported tracks the pins currently exported.
	Exported map[Pin]bool

	// Directions records the last direction set per pin.
	Directions map[Pin]Direction

	// Calls lists the operations performed, e.g. "export GPIO2".
	Calls []string

	// ExportError, DirectionError, ValueError and UnexportError, if set,
	// are returned by the matching operation.
	ExportError    error
	DirectionError error
	ValueError     error
	UnexportError  error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeGateway creates a FakeGateway with the given values.
func NewFakeGateway(values ...bool) *FakeGateway {
	return &FakeGateway{
		Values:     values,
		Exported:   make(map[Pin]bool),
		Directions: make(map[Pin]Direction),
	}
}

// Export marks the pin as exported.
func (f *FakeGateway) Export(pin Pin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "export "+pin.String())
	if f.ExportError != nil {
		return f.ExportError
	}
	f.Exported[pin] = true
	return nil
}

// SetDirection records the direction of an exported pin.
func (f *FakeGateway) SetDirection(pin Pin, dir Direction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "direction "+pin.String()+" "+dir.String())
	if f.DirectionError != nil {
		return f.DirectionError
	}
	if !f.Exported[pin] {
		return ErrNotExported{Pin: pin}
	}
	f.Directions[pin] = dir
	return nil
}

// Value returns the next scripted value.
// If values are exhausted, returns the last value repeatedly.
func (f *FakeGateway) Value(pin Pin) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ValueError != nil {
		return false, f.ValueError
	}
	if !f.Exported[pin] {
		return false, ErrNotExported{Pin: pin}
	}
	if len(f.Values) == 0 {
		return false, errors.New("no values configured")
	}

	v := f.Values[f.index]
	if f.index < len(f.Values)-1 {
		f.index++
	}
	return v, nil
}

// Unexport marks the pin as released.
func (f *FakeGateway) Unexport(pin Pin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "unexport "+pin.String())
	if f.UnexportError != nil {
		return f.UnexportError
	}
	if !f.Exported[pin] {
		return ErrNotExported{Pin: pin}
	}
	delete(f.Exported, pin)
	return nil
}

// Close marks the gateway as closed.
func (f *FakeGateway) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// Unexports returns how many times Unexport was called.
func (f *FakeGateway) Unexports() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if strings.HasPrefix(c, "unexport ") {
			n++
		}
	}
	return n
}

// Reset rewinds the scripted values and clears recorded calls.
func (f *FakeGateway) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.index = 0
	f.Calls = nil
	f.Closed = false
	f.Exported = make(map[Pin]bool)
	f.Directions = make(map[Pin]Direction)
}
