// Package status provides a thread-safe status tracker for the switch monitor.
// It is written by the poll loop and read by HTTP handlers.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/switchmypi/internal/logic"
)

// Config contains monitor configuration for display.
type Config struct {
	Backend  string
	Chip     string
	Pin      string
	PollMs   int64
	Broker   string // empty = MQTT disabled
	HTTPAddr string
}

// Snapshot is a point-in-time view of monitor state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	State         logic.State // "" until the first sample
	StateSince    time.Time
	LastSample    time.Time
	Samples       int64
	Counts        logic.EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the monitor started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable monitor state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Record stores one sample. Called from the poll loop on every tick.
func (t *Tracker) Record(state logic.State, at, since time.Time, counts logic.EventCounts) {
	t.mu.Lock()
	t.snap.State = state
	t.snap.StateSince = since
	t.snap.LastSample = at
	t.snap.Samples++
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the monitor state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
