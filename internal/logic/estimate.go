package logic

// Fill estimation constants, in centimeters of measured echo distance.
const (
	distanceEmptyCM = 20.0 // distance with the bin empty
	distanceTouchCM = 5.0  // object touching the sensor
	distanceMaxCM   = 23.0 // beyond this the sensor sees nothing useful
	fullAtPct       = 95
)

// Wet detection thresholds.
const (
	moistureWetBelow = 3200 // capacitive reading drops when wet
	gasWetOffset     = 500  // this far above baseline indicates decomposition
)

// EstimateFill maps an ultrasonic distance reading to a fill percentage and
// a bin-full flag. Out-of-range readings (blocked sensor, object touching
// it, echo timeout) read as full.
func EstimateFill(distanceCM float64) (fillPct int, full bool) {
	if distanceCM > distanceMaxCM || distanceCM < distanceTouchCM {
		return 100, true
	}
	pct := int((distanceEmptyCM - distanceCM) / (distanceEmptyCM - distanceTouchCM) * 100)
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct, pct >= fullAtPct
}

// SensorWet reports whether the local sensors classify the contents as wet:
// a low capacitive moisture reading or gas well above the calibrated
// baseline. No hysteresis; callers re-evaluate every iteration.
func SensorWet(moisture, gas, baseline int) bool {
	return moisture < moistureWetBelow || gas >= baseline+gasWetOffset
}
