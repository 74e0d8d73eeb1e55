// Package logic contains pure decision logic for the bin monitor:
// calibration, fill estimation, wet detection, ML fusion, alert priority and
// the buzzer and LED pattern generators. This package has NO external
// dependencies (no GPIO, HTTP, OS, or time.Sleep). Time is always injectable
// via time.Time parameters.
package logic

import "time"

// Pattern is the prioritized alert mode driving the buzzer.
type Pattern string

const (
	PatternNone   Pattern = "NONE"
	PatternSensor Pattern = "SENSOR"
	PatternML     Pattern = "ML"
	PatternMixed  Pattern = "MIXED"
	PatternFull   Pattern = "FULL"
)

// Tone is the buzzer output level for one iteration.
type Tone struct {
	On     bool
	FreqHz int
}

// EventType labels a fused-state transition.
type EventType string

const (
	EventWetOn   EventType = "WET_ON"
	EventWetOff  EventType = "WET_OFF"
	EventFullOn  EventType = "FULL_ON"
	EventFullOff EventType = "FULL_OFF"
)

// Event is one fused-state transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Wet       bool
	Full      bool
	FillPct   int
	Pattern   Pattern
}

// AlertCounts tracks the number of each transition since startup.
type AlertCounts struct {
	WetOn   int
	WetOff  int
	FullOn  int
	FullOff int
}
