package cycles

import "time"

// DefaultCalibration is the sampling window used by Calibrate when the
// caller passes zero.
const DefaultCalibration = 10 * time.Millisecond

// Calibrate measures the clock's ticks per nanosecond against the wall
// clock.
//
// This sleeps for d. The result is approximate and can vary with:
//   - CPU frequency scaling on counters that are not invariant
//   - Power management states
//   - Thermal throttling
//
// The monotonic clock always calibrates to ~1.0.
func Calibrate(c Clock, d time.Duration) float64 {
	if d <= 0 {
		d = DefaultCalibration
	}

	// Warm up the read path
	c.Start()
	c.End()

	start := c.Start()
	t1 := time.Now()
	time.Sleep(d)
	end := c.End()
	t2 := time.Now()

	ticks := float64(Elapsed(start, end))
	nanos := float64(t2.Sub(t1).Nanoseconds())
	if nanos <= 0 {
		return 0
	}

	return ticks / nanos
}
