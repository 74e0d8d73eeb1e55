//go:build linux

package hw

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// RealOutputs drives the LEDs through the GPIO character device and the
// buzzer through the BCM283x hardware PWM.
type RealOutputs struct {
	chip   *gpiocdev.Chip
	red    *gpiocdev.Line
	yellow *gpiocdev.Line
	buzzer gpio.PinIO
}

// NewRealOutputs opens the LED lines and resolves the buzzer PWM pin.
func NewRealOutputs(redPin, yellowPin, buzzerPin int) (*RealOutputs, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	red, err := chip.RequestLine(redPin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request red LED pin %d: %w", redPin, err)
	}

	yellow, err := chip.RequestLine(yellowPin, gpiocdev.AsOutput(0))
	if err != nil {
		red.Close()
		chip.Close()
		return nil, fmt.Errorf("request yellow LED pin %d: %w", yellowPin, err)
	}

	buzzer := gpioreg.ByName(fmt.Sprintf("GPIO%d", buzzerPin))
	if buzzer == nil {
		yellow.Close()
		red.Close()
		chip.Close()
		return nil, fmt.Errorf("no such buzzer pin GPIO%d", buzzerPin)
	}

	return &RealOutputs{chip: chip, red: red, yellow: yellow, buzzer: buzzer}, nil
}

// SetRed sets the wet-alert LED.
func (o *RealOutputs) SetRed(on bool) error {
	if err := o.red.SetValue(boolToValue(on)); err != nil {
		return fmt.Errorf("set red LED: %w", err)
	}
	return nil
}

// SetYellow sets the bin-full LED.
func (o *RealOutputs) SetYellow(on bool) error {
	if err := o.yellow.SetValue(boolToValue(on)); err != nil {
		return fmt.Errorf("set yellow LED: %w", err)
	}
	return nil
}

// Tone drives the buzzer with a half-duty square wave at freqHz.
func (o *RealOutputs) Tone(freqHz int) error {
	if freqHz <= 0 {
		return o.ToneOff()
	}
	f := physic.Frequency(freqHz) * physic.Hertz
	if err := o.buzzer.PWM(gpio.DutyHalf, f); err != nil {
		return fmt.Errorf("buzzer pwm %dHz: %w", freqHz, err)
	}
	return nil
}

// ToneOff silences the buzzer.
func (o *RealOutputs) ToneOff() error {
	if err := o.buzzer.Halt(); err != nil {
		return fmt.Errorf("buzzer halt: %w", err)
	}
	return nil
}

// Close silences the buzzer, darkens the LEDs and restores the lines to
// boot defaults (input) before closing.
func (o *RealOutputs) Close() error {
	var errs []error

	if o.buzzer != nil {
		if err := o.buzzer.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt buzzer: %w", err))
		}
	}
	for _, led := range []struct {
		name string
		line *gpiocdev.Line
	}{
		{"red", o.red},
		{"yellow", o.yellow},
	} {
		if led.line == nil {
			continue
		}
		if err := led.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear %s LED: %w", led.name, err))
		}
		if err := led.line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s LED: %w", led.name, err))
		}
		if err := led.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s LED: %w", led.name, err))
		}
	}
	if o.chip != nil {
		if err := o.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func boolToValue(on bool) int {
	if on {
		return 1
	}
	return 0
}
