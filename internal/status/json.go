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
	Event         string          `json:"event,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	State         string          `json:"state"`
	Wet           bool            `json:"wet"`
	Full          bool            `json:"full"`
	FillPct       int             `json:"fill_pct"`
	Pattern       string          `json:"pattern"`
	Muted         bool            `json:"muted"`
	Sensors       SensorsJSON     `json:"sensors"`
	Calibration   CalibrationJSON `json:"calibration"`
	ML            MLJSON          `json:"ml"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	StartTime     string          `json:"start_time"`
	Timestamp     string          `json:"timestamp"`
	MQTT          MQTTStatus      `json:"mqtt"`
	Counts        CountsJSON      `json:"event_counts"`
	Network       *NetworkJSON    `json:"network,omitempty"`
	Config        ConfigJSON      `json:"config"`
}

// SensorsJSON is the JSON representation of the raw sensor reading.
type SensorsJSON struct {
	Gas        int     `json:"gas"`
	Moisture   int     `json:"moisture"`
	DistanceCM float64 `json:"distance_cm"`
	SensorWet  bool    `json:"sensor_wet"`
	MLWet      bool    `json:"ml_wet"`
}

// CalibrationJSON is the JSON representation of baseline progress.
type CalibrationJSON struct {
	Done        bool `json:"done"`
	Samples     int  `json:"samples"`
	Needed      int  `json:"needed"`
	GasBaseline int  `json:"gas_baseline"`
}

// MLJSON is the JSON representation of the classifier state.
type MLJSON struct {
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
	LastPoll   string  `json:"last_poll,omitempty"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of alert counts.
type CountsJSON struct {
	WetOn   int `json:"wet_on"`
	WetOff  int `json:"wet_off"`
	FullOn  int `json:"full_on"`
	FullOff int `json:"full_off"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	ServerURL   string `json:"server_url"`
	HTTPAddr    string `json:"http_addr"`
	WSBroker    string `json:"ws_broker,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	pattern := string(snap.Reading.Pattern)
	if pattern == "" {
		pattern = "NONE"
	}

	inner := StatusInner{
		State:         snap.StateText(),
		Wet:           snap.Reading.CombinedWet,
		Full:          snap.Reading.Full,
		FillPct:       snap.Reading.FillPct,
		Pattern:       pattern,
		Muted:         snap.Reading.Muted,
		Sensors: SensorsJSON{
			Gas:        snap.Reading.Gas,
			Moisture:   snap.Reading.Moisture,
			DistanceCM: snap.Reading.Distance,
			SensorWet:  snap.Reading.SensorWet,
			MLWet:      snap.Reading.MLWet,
		},
		Calibration: CalibrationJSON{
			Done:        snap.Calibration.Done,
			Samples:     snap.Calibration.Samples,
			Needed:      snap.Calibration.Needed,
			GasBaseline: snap.Calibration.GasBaseline,
		},
		ML: MLJSON{
			Prediction: snap.ML.Prediction,
			Confidence: snap.ML.Confidence,
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			WetOn:   snap.Counts.WetOn,
			WetOff:  snap.Counts.WetOff,
			FullOn:  snap.Counts.FullOn,
			FullOff: snap.Counts.FullOff,
		},
		Config: ConfigJSON{
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			ServerURL:   snap.Config.ServerURL,
			HTTPAddr:    snap.Config.HTTPAddr,
			WSBroker:    snap.Config.WSBroker,
		},
	}

	if !snap.ML.LastPoll.IsZero() {
		inner.ML.LastPoll = snap.ML.LastPoll.UTC().Format(time.RFC3339)
	}

	return inner
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
