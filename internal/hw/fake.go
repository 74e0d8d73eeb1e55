package hw

import "errors"

// FakeSensors is a test double that returns scripted readings.
type FakeSensors struct {
	// Readings contains scripted samples to return.
	// Each call to Read() consumes the next one.
	Readings []Reading

	// index tracks current position in Readings
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeSensors creates a FakeSensors with the given readings.
func NewFakeSensors(readings []Reading) *FakeSensors {
	return &FakeSensors{Readings: readings}
}

// Read returns the next scripted reading.
// If readings are exhausted, returns the last reading repeatedly.
func (f *FakeSensors) Read() (Reading, error) {
	if f.ReadError != nil {
		return Reading{}, f.ReadError
	}

	if len(f.Readings) == 0 {
		return Reading{}, errors.New("no readings configured")
	}

	r := f.Readings[f.index]
	if f.index < len(f.Readings)-1 {
		f.index++
	}

	return r, nil
}

// Close marks the sensors as closed.
func (f *FakeSensors) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the sensors to the beginning of the readings.
func (f *FakeSensors) Reset() {
	f.index = 0
	f.Closed = false
}

// FakeOutputs records LED and buzzer commands for tests.
type FakeOutputs struct {
	Red    bool
	Yellow bool
	ToneHz int // 0 when silent

	// Tones records every Tone and ToneOff call in order; ToneOff
	// records a 0.
	Tones []int

	// Closed tracks if Close was called
	Closed bool

	// FailWith, if set, is returned by every output call.
	FailWith error
}

// SetRed records the red LED state.
func (f *FakeOutputs) SetRed(on bool) error {
	if f.FailWith != nil {
		return f.FailWith
	}
	f.Red = on
	return nil
}

// SetYellow records the yellow LED state.
func (f *FakeOutputs) SetYellow(on bool) error {
	if f.FailWith != nil {
		return f.FailWith
	}
	f.Yellow = on
	return nil
}

// Tone records a buzzer tone command.
func (f *FakeOutputs) Tone(freqHz int) error {
	if f.FailWith != nil {
		return f.FailWith
	}
	f.ToneHz = freqHz
	f.Tones = append(f.Tones, freqHz)
	return nil
}

// ToneOff records the buzzer being silenced.
func (f *FakeOutputs) ToneOff() error {
	if f.FailWith != nil {
		return f.FailWith
	}
	f.ToneHz = 0
	f.Tones = append(f.Tones, 0)
	return nil
}

// Close marks the outputs as closed.
func (f *FakeOutputs) Close() error {
	f.Closed = true
	return nil
}
