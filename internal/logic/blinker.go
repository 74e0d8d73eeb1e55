package logic

import "time"

// blinkHalfPeriod is the red LED toggle interval while wet is detected.
const blinkHalfPeriod = 500 * time.Millisecond

// Blinker tracks the red LED blink phase. The phase persists while the LED
// is inactive, so detection flapping does not reset the rhythm.
type Blinker struct {
	lastToggle time.Time
	lit        bool
}

// Update advances the blink phase and reports whether the LED should be lit.
// An inactive LED is dark but keeps its phase.
func (b *Blinker) Update(active bool, now time.Time) bool {
	if !active {
		return false
	}
	if now.Sub(b.lastToggle) >= blinkHalfPeriod {
		b.lit = !b.lit
		b.lastToggle = now
	}
	return b.lit
}
