// Package telemetry defines the typed event structs that flow over the
// WebSocket connection between heatwaved and its clients. These types serve
// as documentation for the event schema; internal code broadcasts events as
// map[string]any for flexibility, with the frame payload embedding the
// engine's Frame snapshot directly.
package telemetry

import "time"

// EventType identifies the kind of WebSocket event.
type EventType string

const (
	EventHeartbeat EventType = "heartbeat"
	EventState     EventType = "state"
	EventLog       EventType = "log"
	EventFrame     EventType = "frame"
	EventPulse     EventType = "pulse"
)

// Event is the base envelope shared by every event type.
type Event struct {
	Type EventType `json:"type"`
	TS   string    `json:"ts"`
}

// NowTS returns the current UTC time as an RFC 3339 nano string, matching
// the timestamp format used across all events.
func NowTS() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Heartbeat is sent periodically so clients can detect connectivity and
// monitor daemon uptime.
type Heartbeat struct {
	Event
	State         string `json:"state"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// StateTransition is emitted whenever the daemon moves between operating
// states (e.g. RUNNING -> PAUSED).
type StateTransition struct {
	Event
	From string `json:"from"`
	To   string `json:"to"`
}

// LogLine carries a human-readable log message at a severity level.
type LogLine struct {
	Event
	Level   string `json:"level"`
	Message string `json:"message"`
}

// PulseTriggered announces one heartbeat pulse with the vitals of the event
// it renders.
type PulseTriggered struct {
	Event
	PulseID      int     `json:"pulse_id"`
	Date         string  `json:"date"`
	PeakTemp     float64 `json:"peak_temp"`
	DurationDays int     `json:"duration_days"`
	TropicalDays int     `json:"tropical_days"`
	RHeight      float64 `json:"r_height"`
	Color        string  `json:"color"`
}
