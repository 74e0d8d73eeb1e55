//go:build linux

package hw

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// Ultrasonic measurement constants.
const (
	triggerPulse  = 10 * time.Microsecond
	echoTimeout   = 60 * time.Millisecond // a missed echo reads as distance 0
	soundCMPerSec = 34300.0
)

// RealSensors reads the bin sensors on actual hardware: HC-SR04 ultrasonic
// ranging timed with kernel GPIO edge events, gas and moisture through an
// ADS1115 on the I2C bus.
type RealSensors struct {
	chip  *gpiocdev.Chip
	trig  *gpiocdev.Line
	echo  *gpiocdev.Line
	edges chan echoEdge

	bus i2c.BusCloser
	adc *ads1115
}

type echoEdge struct {
	rising bool
	at     time.Duration // kernel monotonic timestamp
}

// NewRealSensors opens the ultrasonic GPIO lines and the ADC bus. i2cBus
// selects the I2C bus by name; empty picks the first available.
func NewRealSensors(trigPin, echoPin int, i2cBus string, adcAddr uint16) (*RealSensors, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	trig, err := chip.RequestLine(trigPin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request trigger pin %d: %w", trigPin, err)
	}

	s := &RealSensors{
		chip:  chip,
		trig:  trig,
		edges: make(chan echoEdge, 16),
	}

	echo, err := chip.RequestLine(echoPin,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(s.handleEdge))
	if err != nil {
		trig.Close()
		chip.Close()
		return nil, fmt.Errorf("request echo pin %d: %w", echoPin, err)
	}
	s.echo = echo

	bus, err := i2creg.Open(i2cBus)
	if err != nil {
		echo.Close()
		trig.Close()
		chip.Close()
		return nil, fmt.Errorf("open i2c bus %q: %w", i2cBus, err)
	}
	s.bus = bus
	s.adc = &ads1115{dev: i2c.Dev{Bus: bus, Addr: adcAddr}}

	return s, nil
}

// handleEdge runs on the gpiocdev event goroutine; it must never block.
func (s *RealSensors) handleEdge(evt gpiocdev.LineEvent) {
	e := echoEdge{rising: evt.Type == gpiocdev.LineEventRisingEdge, at: evt.Timestamp}
	select {
	case s.edges <- e:
	default:
	}
}

// Read samples the ADC channels and runs one ultrasonic measurement.
func (s *RealSensors) Read() (Reading, error) {
	gas, err := s.adc.readChannel(ADCChanGas)
	if err != nil {
		return Reading{}, fmt.Errorf("read gas: %w", err)
	}
	moisture, err := s.adc.readChannel(ADCChanMoisture)
	if err != nil {
		return Reading{}, fmt.Errorf("read moisture: %w", err)
	}
	distance, err := s.measureDistance()
	if err != nil {
		return Reading{}, err
	}
	return Reading{Gas: gas, Moisture: moisture, Distance: distance}, nil
}

// measureDistance fires the trigger and times the echo pulse between its
// rising and falling edge timestamps.
func (s *RealSensors) measureDistance() (float64, error) {
	// Drain edges left over from a previous cycle.
	for len(s.edges) > 0 {
		<-s.edges
	}

	if err := s.trig.SetValue(1); err != nil {
		return 0, fmt.Errorf("trigger high: %w", err)
	}
	time.Sleep(triggerPulse)
	if err := s.trig.SetValue(0); err != nil {
		return 0, fmt.Errorf("trigger low: %w", err)
	}

	deadline := time.NewTimer(echoTimeout)
	defer deadline.Stop()

	start, ok := s.waitEdge(true, deadline)
	if !ok {
		return 0, nil
	}
	end, ok := s.waitEdge(false, deadline)
	if !ok {
		return 0, nil
	}

	pulse := end - start
	return pulse.Seconds() * soundCMPerSec / 2, nil
}

// waitEdge blocks until the next edge in the wanted direction or the shared
// deadline expires.
func (s *RealSensors) waitEdge(rising bool, deadline *time.Timer) (time.Duration, bool) {
	for {
		select {
		case e := <-s.edges:
			if e.rising == rising {
				return e.at, true
			}
		case <-deadline.C:
			return 0, false
		}
	}
}

// Close releases the GPIO lines and the I2C bus. The trigger line is
// reconfigured to input to match Pi boot defaults before closing.
func (s *RealSensors) Close() error {
	var errs []error

	if s.trig != nil {
		if err := s.trig.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure trigger pin: %w", err))
		}
		if err := s.trig.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close trigger pin: %w", err))
		}
	}
	if s.echo != nil {
		if err := s.echo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close echo pin: %w", err))
		}
	}
	if s.chip != nil {
		if err := s.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if s.bus != nil {
		if err := s.bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close i2c bus: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
