// Package collector implements the server side of the bin monitor: it
// receives telemetry from the device, owns the remote mute flag, runs the
// mock waste classifier and serves the dashboard.
package collector

import (
	"sync"
	"time"
)

// SensorData is the device state as last reported plus classifier output.
// Wet and full are 0/1 ints on the wire, matching what the device sends.
type SensorData struct {
	Gas           int     `json:"gas"`
	Moisture      int     `json:"moisture"`
	Distance      float64 `json:"distance"`
	Wet           int     `json:"wet"`
	Full          int     `json:"full"`
	Fill          int     `json:"fill"`
	Status        string  `json:"status"`
	MLPrediction  string  `json:"ml_prediction"`
	MLConfidence  float64 `json:"ml_confidence"`
	MLWetDetected bool    `json:"ml_wet_detected"`
}

// Telemetry is one /update report from the device.
type Telemetry struct {
	Gas      int
	Moisture int
	Distance float64
	Wet      int
	Full     int
	Fill     int
	Status   string
}

// HistoryEntry is one telemetry report with its receive time.
type HistoryEntry struct {
	Timestamp string  `json:"timestamp"`
	Gas       int     `json:"gas"`
	Moisture  int     `json:"moisture"`
	Distance  float64 `json:"distance"`
	Wet       int     `json:"wet"`
	Full      int     `json:"full"`
	Fill      int     `json:"fill"`
	Status    string  `json:"status"`
}

type historyRecord struct {
	at time.Time
	t  Telemetry
}

// Store holds collector state behind a mutex. Everything lives in memory;
// a restart starts from a clean slate.
type Store struct {
	mu      sync.RWMutex
	data    SensorData
	muted   bool
	history []historyRecord
	head    int // next write position
	count   int
}

// NewStore creates a Store with an empty reading and a telemetry history
// ring of the given capacity.
func NewStore(historyCap int) *Store {
	return &Store{
		data: SensorData{
			Status:       "Initializing...",
			MLPrediction: "No detection yet",
		},
		history: make([]historyRecord, historyCap),
	}
}

// UpdateTelemetry replaces the device-reported fields and appends the
// report to the history ring. Classifier fields are untouched.
func (s *Store) UpdateTelemetry(t Telemetry, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Gas = t.Gas
	s.data.Moisture = t.Moisture
	s.data.Distance = t.Distance
	s.data.Wet = t.Wet
	s.data.Full = t.Full
	s.data.Fill = t.Fill
	s.data.Status = t.Status

	if len(s.history) == 0 {
		return
	}
	s.history[s.head] = historyRecord{at: at, t: t}
	s.head = (s.head + 1) % len(s.history)
	if s.count < len(s.history) {
		s.count++
	}
}

// SetML replaces the classifier fields. Device-reported fields are untouched.
func (s *Store) SetML(prediction string, confidence float64, wet bool) {
	s.mu.Lock()
	s.data.MLPrediction = prediction
	s.data.MLConfidence = confidence
	s.data.MLWetDetected = wet
	s.mu.Unlock()
}

// Data returns a copy of the current state.
func (s *Store) Data() SensorData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Muted reports whether the device buzzer should be silenced.
func (s *Store) Muted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.muted
}

// SetMuted sets the remote mute flag.
func (s *Store) SetMuted(muted bool) {
	s.mu.Lock()
	s.muted = muted
	s.mu.Unlock()
}

// History returns the buffered telemetry reports, oldest first.
func (s *Store) History() []HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.count == 0 {
		return nil
	}

	out := make([]HistoryEntry, 0, s.count)
	start := (s.head - s.count + len(s.history)) % len(s.history)
	for i := 0; i < s.count; i++ {
		rec := s.history[(start+i)%len(s.history)]
		out = append(out, HistoryEntry{
			Timestamp: rec.at.UTC().Format(time.RFC3339),
			Gas:       rec.t.Gas,
			Moisture:  rec.t.Moisture,
			Distance:  rec.t.Distance,
			Wet:       rec.t.Wet,
			Full:      rec.t.Full,
			Fill:      rec.t.Fill,
			Status:    rec.t.Status,
		})
	}
	return out
}
