// Package status provides a thread-safe status tracker for the bin-sensor daemon.
// It is read by HTTP handlers and feeds MQTT heartbeat payloads.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/bin-sensor/internal/logic"
)

// NetworkInfo contains network state. This is a local copy to avoid
// importing internal/mqtt from status.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	HeartbeatMs int64
	Broker      string
	ServerURL   string
	HTTPAddr    string
	WSBroker    string // Websocket broker URL for browser MQTT (empty = disabled)
}

// Reading is the per-iteration state pushed by the control loop.
type Reading struct {
	Gas         int
	Moisture    int
	Distance    float64
	FillPct     int
	SensorWet   bool
	MLWet       bool
	CombinedWet bool
	Full        bool
	Pattern     logic.Pattern
	Muted       bool
}

// MLInfo is the last successfully polled classifier state.
type MLInfo struct {
	Prediction string
	Confidence float64
	LastPoll   time.Time
}

// Calibration reports baseline progress.
type Calibration struct {
	Done        bool
	Samples     int
	Needed      int
	GasBaseline int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Reading       Reading
	Calibration   Calibration
	ML            MLInfo
	Counts        logic.AlertCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// StateText returns the coarse daemon state reported to the collector.
func (s Snapshot) StateText() string {
	if s.Calibration.Done {
		return "Ready"
	}
	return "Calibrating"
}

// Tracker holds mutable daemon state behind an RWMutex.
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

// Update sets the sensor reading and alert counts.
// Called from the control loop on every iteration.
func (t *Tracker) Update(r Reading, counts logic.AlertCounts) {
	t.mu.Lock()
	t.snap.Reading = r
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetCalibration sets baseline progress.
func (t *Tracker) SetCalibration(c Calibration) {
	t.mu.Lock()
	t.snap.Calibration = c
	t.mu.Unlock()
}

// SetML sets the last successfully polled classifier state.
func (t *Tracker) SetML(info MLInfo) {
	t.mu.Lock()
	t.snap.ML = info
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
