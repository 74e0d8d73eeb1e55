package logic

import "time"

// Interval is a level-triggered periodic timer driven by the control loop.
// A period of zero or less never fires (disabled).
type Interval struct {
	period time.Duration
	last   time.Time
}

// NewInterval creates an interval that first fires one period after start.
func NewInterval(period time.Duration, start time.Time) *Interval {
	return &Interval{period: period, last: start}
}

// Due reports whether the period has elapsed, restarting it from now if so.
func (iv *Interval) Due(now time.Time) bool {
	if iv.period <= 0 {
		return false
	}
	if now.Sub(iv.last) < iv.period {
		return false
	}
	iv.last = now
	return true
}
