// Package hw provides sensor input and indicator output with hardware
// abstraction. The real implementation uses the Linux GPIO character device
// for the ultrasonic sensor and the LEDs, an ADS1115 ADC over I2C for the
// analog sensors and the BCM283x hardware PWM for the buzzer. The fake
// implementations allow testing without hardware.
package hw

// Reading is one sample of the bin's three sensors.
type Reading struct {
	Gas      int     // raw gas level, 12-bit scale
	Moisture int     // raw capacitive moisture level, 12-bit scale
	Distance float64 // ultrasonic echo distance in centimeters
}

// Sensors samples the bin's sensors.
type Sensors interface {
	// Read samples gas, moisture and distance once. An ultrasonic echo
	// timeout yields distance 0 rather than an error.
	Read() (Reading, error)

	// Close releases sensor resources.
	Close() error
}

// Outputs drives the indicator LEDs and the buzzer.
type Outputs interface {
	// SetRed sets the wet-alert LED.
	SetRed(on bool) error

	// SetYellow sets the bin-full LED.
	SetYellow(on bool) error

	// Tone starts or retunes the buzzer at freqHz.
	Tone(freqHz int) error

	// ToneOff silences the buzzer.
	ToneOff() error

	// Close silences everything and releases resources.
	Close() error
}

// Pin definitions (BCM numbering)
const (
	PinTrig   = 23 // ultrasonic trigger
	PinEcho   = 24 // ultrasonic echo
	PinRed    = 17 // wet alert LED
	PinYellow = 27 // bin full LED
	PinBuzzer = 12 // buzzer, must be a hardware PWM pin
)

// ADS1115 attachment. The Pi has no onboard ADC, so the analog sensors sit
// behind an ADS1115 on the I2C bus.
const (
	ADCAddr         = 0x48
	ADCChanGas      = 0 // AIN0
	ADCChanMoisture = 1 // AIN1
)
