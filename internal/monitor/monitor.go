// Package monitor polls a switch wired to a GPIO input and prints its state
// to the console, overwriting the same line on every sample.
package monitor

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sweeney/switchmypi/internal/gpio"
)

// PollInterval is the delay between samples.
const PollInterval = 50 * time.Millisecond

// Console lines for each switch state. The pin is pulled up, so an open
// switch reads high.
const (
	LineOpened = "----- Switch opened -----"
	LineClosed = "+++++ Switch closed +++++"
)

// Label returns the console line for a pin value.
func Label(open bool) string {
	if open {
		return LineOpened
	}
	return LineClosed
}

// Observer is called with every sample after it has been printed.
type Observer func(open bool, at time.Time)

// Option configures a Monitor.
type Option func(*Monitor)

// WithObserver adds a callback for each sample.
func WithObserver(fn Observer) Option {
	return func(m *Monitor) {
		m.observers = append(m.observers, fn)
	}
}

// WithInterval overrides PollInterval.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		m.interval = d
	}
}

// WithClock overrides time.Now for observer timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

// Monitor owns one exported pin for its lifetime.
type Monitor struct {
	gw        gpio.Gateway
	pin       gpio.Pin
	out       io.Writer
	interval  time.Duration
	now       func() time.Time
	observers []Observer

	mu       sync.Mutex
	acquired bool

	closeOnce sync.Once
	closeErr  error
}

// New creates a Monitor for pin that writes status lines to out.
// Nothing is touched on the gateway until Setup.
func New(gw gpio.Gateway, pin gpio.Pin, out io.Writer, opts ...Option) *Monitor {
	m := &Monitor{
		gw:       gw,
		pin:      pin,
		out:      out,
		interval: PollInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Setup exports the pin and makes it an input.
// Once export succeeds the pin is owned and Close will release it, even if
// setting the direction fails.
func (m *Monitor) Setup() error {
	if err := m.gw.Export(m.pin); err != nil {
		return fmt.Errorf("export %s: %w", m.pin, err)
	}
	m.mu.Lock()
	m.acquired = true
	m.mu.Unlock()

	if err := m.gw.SetDirection(m.pin, gpio.In); err != nil {
		return fmt.Errorf("set %s as input: %w", m.pin, err)
	}
	return nil
}

// Sample reads the pin once and prints the matching line.
func (m *Monitor) Sample() (bool, error) {
	open, err := m.gw.Value(m.pin)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", m.pin, err)
	}
	if _, err := fmt.Fprint(m.out, "\r"+Label(open)); err != nil {
		return false, fmt.Errorf("write status: %w", err)
	}
	at := m.now()
	for _, fn := range m.observers {
		fn(open, at)
	}
	return open, nil
}

// Run samples the pin every poll interval until ctx is cancelled.
// Cancellation is the normal way to stop and is not an error.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	return m.runLoop(ctx, ticker.C)
}

func (m *Monitor) runLoop(ctx context.Context, tick <-chan time.Time) error {
	for {
		if _, err := m.Sample(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
		}
	}
}

// Close releases the pin if Setup exported it and ends the status line with
// a newline. Only the first call has any effect.
func (m *Monitor) Close() error {
	m.closeOnce.Do(func() {
		var errs []error

		m.mu.Lock()
		acquired := m.acquired
		m.acquired = false
		m.mu.Unlock()

		if acquired {
			if err := m.gw.Unexport(m.pin); err != nil {
				errs = append(errs, fmt.Errorf("unexport %s: %w", m.pin, err))
			}
		}
		if _, err := fmt.Fprintln(m.out); err != nil {
			errs = append(errs, fmt.Errorf("write newline: %w", err))
		}

		if len(errs) == 1 {
			m.closeErr = errs[0]
		} else if len(errs) > 1 {
			m.closeErr = fmt.Errorf("close errors: %v", errs)
		}
	})
	return m.closeErr
}
