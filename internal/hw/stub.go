//go:build !linux

package hw

import "errors"

// RealSensors is not available on non-Linux platforms.
type RealSensors struct{}

// NewRealSensors returns an error on non-Linux platforms.
func NewRealSensors(trigPin, echoPin int, i2cBus string, adcAddr uint16) (*RealSensors, error) {
	return nil, errors.New("hw: not supported on this platform (requires Linux)")
}

// Read is not implemented on non-Linux platforms.
func (s *RealSensors) Read() (Reading, error) {
	return Reading{}, errors.New("hw: not supported")
}

// Close is not implemented on non-Linux platforms.
func (s *RealSensors) Close() error {
	return nil
}

// RealOutputs is not available on non-Linux platforms.
type RealOutputs struct{}

// NewRealOutputs returns an error on non-Linux platforms.
func NewRealOutputs(redPin, yellowPin, buzzerPin int) (*RealOutputs, error) {
	return nil, errors.New("hw: not supported on this platform (requires Linux)")
}

func (o *RealOutputs) SetRed(on bool) error    { return errors.New("hw: not supported") }
func (o *RealOutputs) SetYellow(on bool) error { return errors.New("hw: not supported") }
func (o *RealOutputs) Tone(freqHz int) error   { return errors.New("hw: not supported") }
func (o *RealOutputs) ToneOff() error          { return errors.New("hw: not supported") }
func (o *RealOutputs) Close() error            { return nil }
