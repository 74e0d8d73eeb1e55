package logic

import "testing"

func TestEstimateFill(t *testing.T) {
	tests := []struct {
		distance float64
		wantFill int
		wantFull bool
	}{
		{30.0, 100, true},  // over range: sensor sees nothing
		{23.5, 100, true},  // just over range
		{23.0, 0, false},   // in range but beyond empty distance: clamps to 0
		{21.5, 0, false},   // between empty and max: negative interpolation clamps
		{20.0, 0, false},   // exactly empty
		{17.0, 20, false},
		{12.5, 50, false},
		{8.0, 80, false},
		{6.5, 90, false},
		{6.0, 93, false},   // just under the full threshold
		{5.75, 95, true},   // fill >= 95 asserts full
		{5.0, 100, true},   // at touch distance
		{4.5, 100, true},   // under range: touching the sensor
		{0.0, 100, true},   // echo timeout reads as zero
	}

	for _, tt := range tests {
		fill, full := EstimateFill(tt.distance)
		if fill != tt.wantFill {
			t.Errorf("EstimateFill(%.2f) fill = %d, want %d", tt.distance, fill, tt.wantFill)
		}
		if full != tt.wantFull {
			t.Errorf("EstimateFill(%.2f) full = %v, want %v", tt.distance, full, tt.wantFull)
		}
	}
}

func TestEstimateFillMonotonic(t *testing.T) {
	// Within the interpolated range, more distance never means more fill.
	prev := 101
	for d := 5.0; d <= 20.0; d += 0.25 {
		fill, _ := EstimateFill(d)
		if fill < 0 || fill > 100 {
			t.Fatalf("EstimateFill(%.2f) = %d out of [0,100]", d, fill)
		}
		if fill > prev {
			t.Fatalf("fill increased with distance: EstimateFill(%.2f) = %d, previous %d", d, fill, prev)
		}
		prev = fill
	}
}

func TestSensorWet(t *testing.T) {
	const baseline = 1800

	tests := []struct {
		moisture int
		gas      int
		want     bool
	}{
		{3199, baseline, true},        // moisture below threshold
		{2000, baseline, true},        // clearly wet
		{3200, baseline, false},       // at threshold: dry
		{4000, baseline, false},       // dry reading, clean air
		{4000, baseline + 500, true},  // gas at offset: wet
		{4000, baseline + 499, false}, // gas just under offset
		{4000, baseline + 1200, true}, // strongly elevated gas
		{2000, baseline + 900, true},  // both indicators
	}

	for _, tt := range tests {
		got := SensorWet(tt.moisture, tt.gas, baseline)
		if got != tt.want {
			t.Errorf("SensorWet(moisture=%d, gas=%d, baseline=%d) = %v, want %v",
				tt.moisture, tt.gas, baseline, got, tt.want)
		}
	}
}
