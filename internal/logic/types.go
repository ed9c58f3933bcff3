// Package logic contains pure business logic for switch state tracking.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// State represents the logical state of the switch.
type State string

const (
	StateOpen   State = "OPEN"
	StateClosed State = "CLOSED"
)

// EventType represents a state transition event.
type EventType string

const (
	EventOpened EventType = "SWITCH_OPENED"
	EventClosed EventType = "SWITCH_CLOSED"
)

// Event represents a state transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	State     State
}

// Input represents a single sample of the switch.
type Input struct {
	Open bool // true = pin high (pulled up, switch open)
	Time time.Time
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	Opened int
	Closed int
}
