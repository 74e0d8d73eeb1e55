package logic

// calibrationSamples is the number of gas readings averaged into the baseline.
const calibrationSamples = 20

// Calibrator accumulates the startup gas baseline. The baseline is the
// integer mean of the first calibrationSamples readings and is never
// recomputed afterwards.
type Calibrator struct {
	sum      int
	count    int
	baseline int
	done     bool
}

// Add feeds one gas reading. Readings after completion are ignored.
// It returns true once the baseline is established.
func (c *Calibrator) Add(gas int) bool {
	if c.done {
		return true
	}
	c.sum += gas
	c.count++
	if c.count >= calibrationSamples {
		c.baseline = c.sum / calibrationSamples
		c.done = true
	}
	return c.done
}

// Done reports whether the baseline is established.
func (c *Calibrator) Done() bool {
	return c.done
}

// Baseline returns the calibrated gas baseline; zero until Done.
func (c *Calibrator) Baseline() int {
	return c.baseline
}

// Progress returns how many samples have been accumulated and how many are
// needed in total.
func (c *Calibrator) Progress() (count, needed int) {
	return c.count, calibrationSamples
}
