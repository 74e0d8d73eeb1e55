package logic

import "time"

// Buzzer timing and tone frequencies.
const (
	beepGap     = 2000 * time.Millisecond // cadence gate, measured from the last beep start
	beepToneMax = 300 * time.Millisecond  // maximum tone duration outside FULL

	mixedCycle = 400 * time.Millisecond // MIXED alternation sub-cycle
	fullCycle  = 600 * time.Millisecond // FULL on/off sub-cycle
	fullOnSpan = 200 * time.Millisecond // tone-on window at the start of each FULL cycle

	freqSensorHz = 1200
	freqMLHz     = 1500
	freqFullHz   = 1000
)

// Beeper renders the selected alert pattern into buzzer tone levels. The
// cadence gate is anchored to the start of the most recent beep and shared
// across pattern switches; the MIXED and FULL sub-cycles are anchored to
// device start. Level-triggered: callers invoke Update every iteration and
// forward the returned tone to the buzzer.
type Beeper struct {
	start     time.Time
	beepStart time.Time
	active    bool
	freqHz    int
}

// NewBeeper creates a beeper anchored at start. The cadence gate begins
// expired, so the first alert beeps immediately.
func NewBeeper(start time.Time) *Beeper {
	return &Beeper{start: start, beepStart: start.Add(-beepGap)}
}

// Update advances the pattern state machine and returns the tone the buzzer
// should output right now. Mute wins over everything and leaves the cadence
// anchor unchanged.
func (b *Beeper) Update(p Pattern, muted bool, now time.Time) Tone {
	if muted {
		b.active = false
		return Tone{}
	}

	switch p {
	case PatternNone:
		b.active = false
		return Tone{}
	case PatternFull:
		// Fast sub-cycle, re-evaluated every iteration; ignores the
		// cadence gate and the tone duration cap.
		if now.Sub(b.start)%fullCycle < fullOnSpan {
			b.active = true
			b.freqHz = freqFullHz
			return Tone{On: true, FreqHz: freqFullHz}
		}
		b.active = false
		return Tone{}
	}

	// SENSOR, ML, MIXED: one duration-capped tone per cadence gate.
	if b.active && now.Sub(b.beepStart) >= beepToneMax {
		b.active = false
	}
	if now.Sub(b.beepStart) >= beepGap {
		b.beepStart = now
		b.active = true
		b.freqHz = patternFreq(p, now.Sub(b.start))
	}
	if !b.active {
		return Tone{}
	}
	return Tone{On: true, FreqHz: b.freqHz}
}

// patternFreq picks the tone frequency at beep start. MIXED alternates on a
// fixed sub-cycle of uptime, sampled once per beep.
func patternFreq(p Pattern, uptime time.Duration) int {
	switch p {
	case PatternML:
		return freqMLHz
	case PatternMixed:
		if uptime%mixedCycle < mixedCycle/2 {
			return freqSensorHz
		}
		return freqMLHz
	default:
		return freqSensorHz
	}
}
