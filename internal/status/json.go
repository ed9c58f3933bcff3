package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Switch        string     `json:"switch"`
	StateSince    string     `json:"state_since,omitempty"`
	LastSample    string     `json:"last_sample,omitempty"`
	Samples       int64      `json:"samples"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"event_counts"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Enabled   bool   `json:"enabled"`
	Connected bool   `json:"connected"`
	Broker    string `json:"broker,omitempty"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Opened int `json:"opened"`
	Closed int `json:"closed"`
}

// ConfigJSON is the JSON representation of monitor config.
type ConfigJSON struct {
	Backend  string `json:"backend"`
	Chip     string `json:"chip,omitempty"`
	Pin      string `json:"pin"`
	PollMs   int64  `json:"poll_ms"`
	HTTPAddr string `json:"http_addr"`
}

// StateOrUnknown returns the switch state, or "UNKNOWN" before the first sample.
func (s Snapshot) StateOrUnknown() string {
	if s.State == "" {
		return "UNKNOWN"
	}
	return string(s.State)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// FormatJSON returns the indented JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	inner := StatusInner{
		Switch:        snap.StateOrUnknown(),
		StateSince:    formatTime(snap.StateSince),
		LastSample:    formatTime(snap.LastSample),
		Samples:       snap.Samples,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     formatTime(snap.StartTime),
		Timestamp:     formatTime(snap.Now),
		MQTT: MQTTStatus{
			Enabled:   snap.Config.Broker != "",
			Connected: snap.MQTTConnected,
			Broker:    snap.Config.Broker,
		},
		Counts: CountsJSON{
			Opened: snap.Counts.Opened,
			Closed: snap.Counts.Closed,
		},
		Config: ConfigJSON{
			Backend:  snap.Config.Backend,
			Chip:     snap.Config.Chip,
			Pin:      snap.Config.Pin,
			PollMs:   snap.Config.PollMs,
			HTTPAddr: snap.Config.HTTPAddr,
		},
	}

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}
