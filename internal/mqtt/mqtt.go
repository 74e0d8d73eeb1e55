// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/bin-sensor/internal/logic"
)

// Topic is the MQTT topic for bin alert events.
const Topic = "waste/bin/sensor/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "waste/bin/sensor/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a bin alert event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Bin BinPayload `json:"bin"`
}

// BinPayload contains the bin alert event details.
type BinPayload struct {
	Timestamp string     `json:"timestamp"`
	Event     string     `json:"event"`
	Wet       AlarmState `json:"wet"`
	Full      AlarmState `json:"full"`
	FillPct   int        `json:"fill_pct"`
	Pattern   string     `json:"pattern"`
}

// AlarmState represents a single alarm's state.
type AlarmState struct {
	State string `json:"state"`
}

// FormatPayload creates the JSON payload for a bin alert event.
func FormatPayload(event logic.Event) ([]byte, error) {
	payload := Payload{
		Bin: BinPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			Wet:       AlarmState{State: stateString(event.Wet)},
			Full:      AlarmState{State: stateString(event.Full)},
			FillPct:   event.FillPct,
			Pattern:   string(event.Pattern),
		},
	}
	return json.Marshal(payload)
}

func stateString(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
