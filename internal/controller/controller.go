// Package controller runs the bin monitor's control loop. One cooperative
// loop owns all mutable state: it polls the remote mute flag and classifier,
// samples the sensors, calibrates the gas baseline at startup, derives fill
// and wet state, selects the alert pattern and drives the LEDs and buzzer.
// Remote calls are synchronous and block the loop for at most the client's
// timeout; everything that can fail mid-loop is logged and skipped, never
// fatal.
package controller

import (
	"os"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sweeney/bin-sensor/internal/hw"
	"github.com/sweeney/bin-sensor/internal/logic"
	"github.com/sweeney/bin-sensor/internal/mqtt"
	"github.com/sweeney/bin-sensor/internal/remote"
	"github.com/sweeney/bin-sensor/internal/status"
)

// Loop cadence. The calibration phase runs slower so the baseline spans a
// few seconds of ambient air.
const (
	delayCalibrating = 500 * time.Millisecond
	delayReady       = 100 * time.Millisecond

	mlPollInterval = 3000 * time.Millisecond
	reportInterval = 800 * time.Millisecond
)

// Remote is the collector client surface the loop needs. *remote.Client
// satisfies it; tests substitute a scripted fake.
type Remote interface {
	// PollMute fetches the remote mute flag; failures read as not muted.
	PollMute() bool

	// PollML fetches the classifier status. On error the caller keeps
	// all previous values.
	PollML() (logic.MLUpdate, error)

	// SendTelemetry reports one snapshot, best effort.
	SendTelemetry(t remote.Telemetry) error
}

// Config wires the controller's collaborators. Publisher may be nil when
// MQTT is disabled; Tracker is required.
type Config struct {
	Sensors    hw.Sensors
	Outputs    hw.Outputs
	Remote     Remote
	Publisher  mqtt.Publisher
	MQTTStatus mqtt.ConnectionStatus
	Tracker    *status.Tracker
	Heartbeat  time.Duration
	Log        *zap.SugaredLogger
}

// Controller owns the loop state. Not safe for concurrent use; exactly one
// goroutine calls Step/Run.
type Controller struct {
	cfg Config

	cal     logic.Calibrator
	ml      logic.MLStatus
	beeper  *logic.Beeper
	blinker logic.Blinker
	trans   logic.Transitions

	mlPoll    *logic.Interval
	report    *logic.Interval
	heartbeat *logic.Interval

	muted bool
}

// New creates a controller anchored at start. The ML and telemetry
// intervals first fire one period after start; the beeper's cadence gate
// begins expired so the first alert is audible immediately.
func New(cfg Config, start time.Time) *Controller {
	return &Controller{
		cfg:       cfg,
		beeper:    logic.NewBeeper(start),
		mlPoll:    logic.NewInterval(mlPollInterval, start),
		report:    logic.NewInterval(reportInterval, start),
		heartbeat: logic.NewInterval(cfg.Heartbeat, start),
	}
}

// Step runs one loop iteration at the given time and returns how long the
// loop should pause before the next one.
func (c *Controller) Step(now time.Time) time.Duration {
	c.muted = c.cfg.Remote.PollMute()

	if c.mlPoll.Due(now) {
		c.pollML(now)
	}

	reading, err := c.cfg.Sensors.Read()
	if err != nil {
		// A failed sample skips the whole iteration; during
		// calibration it does not count toward the baseline.
		c.cfg.Log.Warnw("sensor read failed", "err", err)
		return c.delay()
	}

	if !c.cal.Done() {
		c.calibrate(reading, now)
		return delayCalibrating
	}

	c.run(reading, now)
	return delayReady
}

func (c *Controller) delay() time.Duration {
	if c.cal.Done() {
		return delayReady
	}
	return delayCalibrating
}

func (c *Controller) pollML(now time.Time) {
	update, err := c.cfg.Remote.PollML()
	if err != nil {
		// Stale classifier state is carried until the next good poll.
		c.cfg.Log.Debugw("ml poll failed", "err", err)
		return
	}
	c.ml.Apply(update, now)
	c.cfg.Tracker.SetML(status.MLInfo{
		Prediction: c.ml.Prediction,
		Confidence: c.ml.Confidence,
		LastPoll:   c.ml.LastPoll,
	})
	c.cfg.Log.Debugw("ml status",
		"wet", c.ml.Wet, "confidence", c.ml.Confidence, "prediction", c.ml.Prediction)
}

// calibrate accumulates one gas sample toward the baseline. Fill and wet
// detection never run before the baseline exists; the tracker and collector
// still see a skeleton snapshot with live raw readings.
func (c *Controller) calibrate(reading hw.Reading, now time.Time) {
	if c.cal.Add(reading.Gas) {
		c.cfg.Log.Infow("calibration complete", "gas_baseline", c.cal.Baseline())
	}

	samples, needed := c.cal.Progress()
	c.cfg.Tracker.SetCalibration(status.Calibration{
		Done:        c.cal.Done(),
		Samples:     samples,
		Needed:      needed,
		GasBaseline: c.cal.Baseline(),
	})
	c.cfg.Tracker.Update(status.Reading{
		Gas:      reading.Gas,
		Moisture: reading.Moisture,
		Distance: reading.Distance,
		Pattern:  logic.PatternNone,
		Muted:    c.muted,
	}, c.trans.Counts())

	c.reportDue(reading, false, false, 0, now)
}

// run is one post-calibration iteration: derive, fuse, alert, report.
func (c *Controller) run(reading hw.Reading, now time.Time) {
	fillPct, full := logic.EstimateFill(reading.Distance)
	sensorWet := logic.SensorWet(reading.Moisture, reading.Gas, c.cal.Baseline())
	combinedWet := sensorWet || c.ml.Wet
	bothWet := sensorWet && c.ml.Wet

	pattern := logic.SelectPattern(full, sensorWet, c.ml.Wet, c.ml.Confidence)

	for _, event := range c.trans.Update(combinedWet, full, fillPct, pattern, now) {
		c.cfg.Log.Infow("event",
			"type", event.Type, "fill_pct", event.FillPct, "pattern", event.Pattern)
		if c.cfg.Publisher == nil {
			continue
		}
		if err := c.cfg.Publisher.Publish(event); err != nil {
			c.cfg.Log.Warnw("event publish failed", "type", event.Type, "err", err)
		}
	}

	c.drive(combinedWet, full, pattern, now)

	c.cfg.Tracker.Update(status.Reading{
		Gas:         reading.Gas,
		Moisture:    reading.Moisture,
		Distance:    reading.Distance,
		FillPct:     fillPct,
		SensorWet:   sensorWet,
		MLWet:       c.ml.Wet,
		CombinedWet: combinedWet,
		Full:        full,
		Pattern:     pattern,
		Muted:       c.muted,
	}, c.trans.Counts())
	c.syncMQTTConnected()

	c.cfg.Log.Debugw("iteration",
		"gas", reading.Gas, "moisture", reading.Moisture, "distance", reading.Distance,
		"fill_pct", fillPct, "wet", combinedWet, "both", bothWet,
		"full", full, "pattern", pattern, "muted", c.muted)

	c.reportDue(reading, combinedWet, full, fillPct, now)
	c.heartbeatDue(now)
}

// drive pushes the fused state out to the LEDs and the buzzer. Output
// errors are logged; the hardware is retried next iteration anyway.
func (c *Controller) drive(combinedWet, full bool, pattern logic.Pattern, now time.Time) {
	if err := c.cfg.Outputs.SetRed(c.blinker.Update(combinedWet, now)); err != nil {
		c.cfg.Log.Warnw("red LED", "err", err)
	}
	if err := c.cfg.Outputs.SetYellow(full); err != nil {
		c.cfg.Log.Warnw("yellow LED", "err", err)
	}

	tone := c.beeper.Update(pattern, c.muted, now)
	var err error
	if tone.On {
		err = c.cfg.Outputs.Tone(tone.FreqHz)
	} else {
		err = c.cfg.Outputs.ToneOff()
	}
	if err != nil {
		c.cfg.Log.Warnw("buzzer", "err", err)
	}
}

// reportDue sends one telemetry snapshot when the report interval fires.
// The interval restarts on every attempt, success or not.
func (c *Controller) reportDue(reading hw.Reading, wet, full bool, fillPct int, now time.Time) {
	if !c.report.Due(now) {
		return
	}

	err := c.cfg.Remote.SendTelemetry(remote.Telemetry{
		Gas:      reading.Gas,
		Moisture: reading.Moisture,
		Distance: reading.Distance,
		Wet:      wet,
		Full:     full,
		FillPct:  fillPct,
		Status:   c.cfg.Tracker.Snapshot().StateText(),
	})
	if err != nil {
		c.cfg.Log.Debugw("telemetry send failed", "err", err)
	}
}

func (c *Controller) heartbeatDue(now time.Time) {
	if c.cfg.Publisher == nil || !c.heartbeat.Due(now) {
		return
	}

	snap := c.cfg.Tracker.Snapshot()
	c.cfg.Log.Infow("heartbeat",
		"uptime", snap.Uptime(),
		"wet_on", snap.Counts.WetOn, "wet_off", snap.Counts.WetOff,
		"full_on", snap.Counts.FullOn, "full_off", snap.Counts.FullOff)

	event := mqtt.SystemEvent{
		Timestamp:  now,
		Event:      "HEARTBEAT",
		RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
	}
	if err := c.cfg.Publisher.PublishSystem(event); err != nil {
		c.cfg.Log.Warnw("heartbeat publish failed", "err", err)
	}
}

func (c *Controller) syncMQTTConnected() {
	if c.cfg.MQTTStatus != nil {
		c.cfg.Tracker.SetMQTTConnected(c.cfg.MQTTStatus.IsConnected())
	}
}

// Run drives Step until a signal arrives, pausing between iterations for
// the duration Step requests. On shutdown it publishes a retained SHUTDOWN
// system event carrying the final status snapshot.
func (c *Controller) Run(now func() time.Time, sleep func(time.Duration), sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			c.shutdown(s, now())
			return nil
		default:
		}

		sleep(c.Step(now()))
	}
}

func (c *Controller) shutdown(s os.Signal, now time.Time) {
	c.cfg.Log.Infow("shutting down", "signal", s)

	// Leave the hardware quiet.
	if err := c.cfg.Outputs.SetRed(false); err != nil {
		c.cfg.Log.Warnw("red LED", "err", err)
	}
	if err := c.cfg.Outputs.SetYellow(false); err != nil {
		c.cfg.Log.Warnw("yellow LED", "err", err)
	}
	if err := c.cfg.Outputs.ToneOff(); err != nil {
		c.cfg.Log.Warnw("buzzer", "err", err)
	}

	if c.cfg.Publisher == nil {
		return
	}

	c.syncMQTTConnected()
	snap := c.cfg.Tracker.Snapshot()
	event := mqtt.SystemEvent{
		Timestamp:  now,
		Event:      "SHUTDOWN",
		Reason:     signalName(s),
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName(s)),
	}
	if err := c.cfg.Publisher.PublishSystem(event); err != nil {
		c.cfg.Log.Warnw("shutdown publish failed", "err", err)
	} else {
		c.cfg.Log.Infow("published shutdown event")
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	default:
		return "UNKNOWN"
	}
}
