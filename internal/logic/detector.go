package logic

import "time"

// Detector tracks the switch state and reports changes between samples.
// It does not debounce: every differing sample is a transition.
type Detector struct {
	current     State
	baselined   bool
	since       time.Time
	eventCounts EventCounts
}

// NewDetector creates a detector with no baseline.
func NewDetector() *Detector {
	return &Detector{}
}

// Process takes a new sample and returns any events that should be emitted.
// The first sample sets the baseline and emits nothing.
func (d *Detector) Process(input Input) []Event {
	state := boolToState(input.Open)

	if !d.baselined {
		d.current = state
		d.since = input.Time
		d.baselined = true
		return nil
	}

	if state == d.current {
		return nil
	}

	d.current = state
	d.since = input.Time

	event := Event{
		Timestamp: input.Time,
		Type:      eventTypeFor(state),
		State:     state,
	}
	switch event.Type {
	case EventOpened:
		d.eventCounts.Opened++
	case EventClosed:
		d.eventCounts.Closed++
	}
	return []Event{event}
}

func boolToState(open bool) State {
	if open {
		return StateOpen
	}
	return StateClosed
}

func eventTypeFor(to State) EventType {
	if to == StateOpen {
		return EventOpened
	}
	return EventClosed
}

// IsBaselined returns whether the detector has seen a sample.
func (d *Detector) IsBaselined() bool {
	return d.baselined
}

// CurrentState returns the last sampled state, or "" before the first sample.
func (d *Detector) CurrentState() State {
	return d.current
}

// Since returns when the current state was first observed.
func (d *Detector) Since() time.Time {
	return d.since
}

// EventCountsSnapshot returns a copy of the event counts.
func (d *Detector) EventCountsSnapshot() EventCounts {
	return d.eventCounts
}
