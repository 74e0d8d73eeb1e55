package logic

import "time"

// Transitions detects edges in the fused wet/full state between iterations
// and counts them for heartbeats and the status page.
type Transitions struct {
	wet    bool
	full   bool
	counts AlertCounts
}

// Update compares the fused state against the previous iteration and returns
// events for any edges, wet before full. The first iteration compares
// against all-clear.
func (tr *Transitions) Update(wet, full bool, fillPct int, p Pattern, now time.Time) []Event {
	var events []Event

	if wet != tr.wet {
		typ := EventWetOn
		if !wet {
			typ = EventWetOff
		}
		events = append(events, Event{
			Timestamp: now,
			Type:      typ,
			Wet:       wet,
			Full:      full,
			FillPct:   fillPct,
			Pattern:   p,
		})
	}

	if full != tr.full {
		typ := EventFullOn
		if !full {
			typ = EventFullOff
		}
		events = append(events, Event{
			Timestamp: now,
			Type:      typ,
			Wet:       wet,
			Full:      full,
			FillPct:   fillPct,
			Pattern:   p,
		})
	}

	tr.wet = wet
	tr.full = full

	// Count events
	for _, e := range events {
		switch e.Type {
		case EventWetOn:
			tr.counts.WetOn++
		case EventWetOff:
			tr.counts.WetOff++
		case EventFullOn:
			tr.counts.FullOn++
		case EventFullOff:
			tr.counts.FullOff++
		}
	}

	return events
}

// Counts returns the accumulated edge counts.
func (tr *Transitions) Counts() AlertCounts {
	return tr.counts
}
