package controller

// End-to-end: the controller talking HTTP to a real collector instance on a
// loopback listener, with only the hardware faked.

import (
	"encoding/json"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sweeney/bin-sensor/internal/collector"
	"github.com/sweeney/bin-sensor/internal/hw"
	"github.com/sweeney/bin-sensor/internal/remote"
	"github.com/sweeney/bin-sensor/internal/status"
)

func startCollector(t *testing.T) (string, *collector.Store, *collector.Classifier) {
	t.Helper()

	store := collector.NewStore(16)
	classifier := collector.NewClassifier(store, zap.NewNop().Sugar(), rand.New(rand.NewSource(1)))
	srv := collector.New(":0", store, classifier, zap.NewNop().Sugar())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go srv.Serve(ln)
	t.Cleanup(func() { ln.Close() })

	return "http://" + ln.Addr().String(), store, classifier
}

func TestEndToEndTelemetryReachesCollector(t *testing.T) {
	baseURL, store, _ := startCollector(t)

	sensors := hw.NewFakeSensors([]hw.Reading{{Gas: 1800, Moisture: 2000, Distance: 12.5}})
	outputs := &hw.FakeOutputs{}
	tracker := status.NewTracker(testStart(), status.Config{})
	ctrl := New(Config{
		Sensors: sensors,
		Outputs: outputs,
		Remote:  remote.New(baseURL, 2*time.Second, zap.NewNop().Sugar()),
		Tracker: tracker,
		Log:     zap.NewNop().Sugar(),
	}, testStart())

	at := testStart()
	for i := 0; i < 20; i++ {
		ctrl.Step(at.Add(time.Duration(i) * delayCalibrating))
	}
	ctrl.Step(at.Add(11 * time.Second))

	d := store.Data()
	if d.Gas != 1800 || d.Moisture != 2000 || d.Distance != 12.5 {
		t.Errorf("collector readings: got %+v", d)
	}
	if d.Wet != 1 {
		t.Errorf("collector wet: got %d, want 1 (moisture below threshold)", d.Wet)
	}
	if d.Fill != 50 {
		t.Errorf("collector fill: got %d, want 50 at 12.5cm", d.Fill)
	}
	if d.Status != "Ready" {
		t.Errorf("collector status: got %q, want Ready", d.Status)
	}
}

func TestEndToEndRemoteMute(t *testing.T) {
	baseURL, _, _ := startCollector(t)

	sensors := hw.NewFakeSensors([]hw.Reading{{Gas: 1800, Moisture: 2000, Distance: 18}})
	outputs := &hw.FakeOutputs{}
	tracker := status.NewTracker(testStart(), status.Config{})
	ctrl := New(Config{
		Sensors: sensors,
		Outputs: outputs,
		Remote:  remote.New(baseURL, 2*time.Second, zap.NewNop().Sugar()),
		Tracker: tracker,
		Log:     zap.NewNop().Sugar(),
	}, testStart())

	at := testStart()
	for i := 0; i < 20; i++ {
		ctrl.Step(at.Add(time.Duration(i) * delayCalibrating))
	}
	ctrl.Step(at.Add(10 * time.Second))
	if outputs.ToneHz != 1200 {
		t.Fatalf("expected audible sensor alert, got %dHz", outputs.ToneHz)
	}

	resp, err := http.Post(baseURL+"/buzzer", "application/x-www-form-urlencoded",
		strings.NewReader(url.Values{"state": {"stop"}}.Encode()))
	if err != nil {
		t.Fatalf("POST /buzzer: %v", err)
	}
	resp.Body.Close()

	ctrl.Step(at.Add(10*time.Second + delayReady))
	if outputs.ToneHz != 0 {
		t.Errorf("remote mute should silence the buzzer, got %dHz", outputs.ToneHz)
	}
	if !tracker.Snapshot().Reading.Muted {
		t.Error("muted flag not reflected in the tracker")
	}
}

func TestEndToEndClassifierFusion(t *testing.T) {
	baseURL, store, classifier := startCollector(t)

	// Scan until the seeded rng draws the organic label.
	for i := 0; i < 10 && !store.Data().MLWetDetected; i++ {
		classifier.Scan(time.Now())
	}
	d := store.Data()
	if !d.MLWetDetected {
		t.Fatal("seeded classifier never predicted organic waste")
	}

	sensors := hw.NewFakeSensors([]hw.Reading{{Gas: 1800, Moisture: 3500, Distance: 18}})
	outputs := &hw.FakeOutputs{}
	tracker := status.NewTracker(testStart(), status.Config{})
	ctrl := New(Config{
		Sensors: sensors,
		Outputs: outputs,
		Remote:  remote.New(baseURL, 2*time.Second, zap.NewNop().Sugar()),
		Tracker: tracker,
		Log:     zap.NewNop().Sugar(),
	}, testStart())

	at := testStart()
	for i := 0; i < 20; i++ {
		ctrl.Step(at.Add(time.Duration(i) * delayCalibrating))
	}
	ctrl.Step(at.Add(10 * time.Second))

	snap := tracker.Snapshot()
	if !snap.Reading.MLWet {
		t.Error("ML wet detection should reach the device")
	}
	if !snap.Reading.CombinedWet {
		t.Error("combined wet should include the remote detection")
	}
	if snap.ML.Prediction != d.MLPrediction || snap.ML.Confidence != d.MLConfidence {
		t.Errorf("device ML view %+v != collector %q/%v", snap.ML, d.MLPrediction, d.MLConfidence)
	}
}

func TestEndToEndSensorDataEndpoint(t *testing.T) {
	baseURL, _, _ := startCollector(t)

	sensors := hw.NewFakeSensors([]hw.Reading{{Gas: 1800, Moisture: 3500, Distance: 30}})
	outputs := &hw.FakeOutputs{}
	tracker := status.NewTracker(testStart(), status.Config{})
	ctrl := New(Config{
		Sensors: sensors,
		Outputs: outputs,
		Remote:  remote.New(baseURL, 2*time.Second, zap.NewNop().Sugar()),
		Tracker: tracker,
		Log:     zap.NewNop().Sugar(),
	}, testStart())

	at := testStart()
	for i := 0; i < 20; i++ {
		ctrl.Step(at.Add(time.Duration(i) * delayCalibrating))
	}
	ctrl.Step(at.Add(11 * time.Second))

	resp, err := http.Get(baseURL + "/sensor-data")
	if err != nil {
		t.Fatalf("GET /sensor-data: %v", err)
	}
	defer resp.Body.Close()

	var d collector.SensorData
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Full != 1 || d.Fill != 100 {
		t.Errorf("over-range distance should report full: %+v", d)
	}
}
