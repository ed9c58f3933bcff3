package mqtt

import (
	"errors"
	"testing"
	"time"

	"github.com/sweeney/switchmypi/internal/logic"
)

func TestFormatPayloadExactJSON(t *testing.T) {
	event := logic.Event{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Type:      logic.EventOpened,
		State:     logic.StateOpen,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"switch":{"timestamp":"2026-02-02T22:18:12Z","event":"SWITCH_OPENED","state":"OPEN"}}`
	if string(payload) != want {
		t.Errorf("payload:\ngot  %s\nwant %s", payload, want)
	}
}

func TestFormatPayloadTimezoneConversion(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	event := logic.Event{
		Timestamp: time.Date(2026, 2, 3, 0, 30, 0, 0, loc),
		Type:      logic.EventClosed,
		State:     logic.StateClosed,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"switch":{"timestamp":"2026-02-02T22:30:00Z","event":"SWITCH_CLOSED","state":"CLOSED"}}`
	if string(payload) != want {
		t.Errorf("payload:\ngot  %s\nwant %s", payload, want)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	ts := time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC)
	tests := []struct {
		name  string
		event SystemEvent
		want  string
	}{
		{
			"startup",
			SystemEvent{Timestamp: ts, Event: "STARTUP", Pin: "GPIO2"},
			`{"system":{"timestamp":"2026-02-02T22:18:12Z","event":"STARTUP","pin":"GPIO2"}}`,
		},
		{
			"shutdown",
			SystemEvent{Timestamp: ts, Event: "SHUTDOWN", Reason: "SIGINT"},
			`{"system":{"timestamp":"2026-02-02T22:18:12Z","event":"SHUTDOWN","reason":"SIGINT"}}`,
		},
		{
			"offline",
			SystemEvent{Timestamp: ts, Event: "OFFLINE"},
			`{"system":{"timestamp":"2026-02-02T22:18:12Z","event":"OFFLINE"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := FormatSystemPayload(tt.event)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(payload) != tt.want {
				t.Errorf("payload:\ngot  %s\nwant %s", payload, tt.want)
			}
		})
	}
}

func TestTopics(t *testing.T) {
	if Topic != "switchmypi/switch/events" {
		t.Errorf("unexpected topic: %s", Topic)
	}
	if TopicSystem != "switchmypi/switch/system" {
		t.Errorf("unexpected system topic: %s", TopicSystem)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()

	event := logic.Event{Timestamp: time.Now(), Type: logic.EventOpened, State: logic.StateOpen}
	if err := f.Publish(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sys := SystemEvent{Timestamp: time.Now(), Event: "SHUTDOWN", Reason: "SIGTERM", Retained: true}
	if err := f.PublishSystem(sys); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Events) != 1 || f.Events[0].Type != logic.EventOpened {
		t.Errorf("events: got %+v", f.Events)
	}
	if len(f.Payloads) != 1 {
		t.Errorf("expected 1 payload, got %d", len(f.Payloads))
	}
	if len(f.SystemEvents) != 1 || !f.SystemEvents[0].Retained {
		t.Errorf("system events: got %+v", f.SystemEvents)
	}
	if len(f.SystemPayloads) != 1 {
		t.Errorf("expected 1 system payload, got %d", len(f.SystemPayloads))
	}
}

func TestFakePublisherErrors(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("simulated error")
	f.PublishSystemError = errors.New("simulated system error")

	if err := f.Publish(logic.Event{Type: logic.EventClosed}); err == nil {
		t.Error("expected error")
	}
	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err == nil {
		t.Error("expected system error")
	}
	if len(f.Events) != 0 || len(f.SystemEvents) != 0 {
		t.Error("expected nothing recorded on error")
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	f.Publish(logic.Event{Type: logic.EventOpened})
	f.PublishSystem(SystemEvent{Event: "STARTUP"})
	f.Close()
	f.Connected = true
	f.PublishError = errors.New("error")

	f.Reset()

	if len(f.Events) != 0 || len(f.Payloads) != 0 || len(f.SystemEvents) != 0 || len(f.SystemPayloads) != 0 {
		t.Error("recorded events should be cleared")
	}
	if f.Closed || f.Connected || f.PublishError != nil {
		t.Error("flags should be reset")
	}
}
