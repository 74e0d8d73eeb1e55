package logic

import "time"

// mlConfidenceAlert is the percent confidence above which the remote
// classification alone can raise an alert.
const mlConfidenceAlert = 70.0

// MLUpdate carries the fields extracted from one successful poll of the
// classifier endpoint. Nil pointers mark fields absent from the response;
// absent fields keep their previous values. Wet has no pointer: a response
// without the wet marker means not wet.
type MLUpdate struct {
	Wet        bool
	Confidence *float64
	Prediction *string
}

// MLStatus is the retained view of the remote classifier. Values persist
// unchanged across failed polls; there is no staleness timeout.
type MLStatus struct {
	Wet        bool
	Confidence float64
	Prediction string
	LastPoll   time.Time
}

// Apply merges one successful poll into the retained status.
func (s *MLStatus) Apply(u MLUpdate, now time.Time) {
	s.Wet = u.Wet
	if u.Confidence != nil {
		s.Confidence = *u.Confidence
	}
	if u.Prediction != nil {
		s.Prediction = *u.Prediction
	}
	s.LastPoll = now
}

// SelectPattern picks the alert pattern for the current iteration. Strict
// priority, first match wins; no memory of the previous pattern.
func SelectPattern(full, sensorWet, mlWet bool, mlConfidence float64) Pattern {
	switch {
	case full:
		return PatternFull
	case sensorWet && mlWet:
		return PatternMixed
	case mlWet && mlConfidence > mlConfidenceAlert:
		return PatternML
	case sensorWet:
		return PatternSensor
	default:
		return PatternNone
	}
}
