// Package stats tracks the two tiers of execution-time bounds: the
// current display interval and the whole run since start or the last
// reset.
//
// A Tracker has a single owner. It is not safe for concurrent use and
// has no need to be: the only asynchronous input, the reset request,
// reaches it through the sample loop at an interval boundary.
package stats

import "math"

// Infinity is the initial value of both minimums. Any real duration
// compares below it.
const Infinity uint64 = math.MaxUint64

// Snapshot is one completed display interval.
type Snapshot struct {
	InstMin uint64
	InstMax uint64
	Jitter  uint64 // InstMax - InstMin, 0 for an empty interval
	Samples uint64
}

// Empty reports whether no sample was recorded in the interval. The
// bounds of an empty snapshot are the sentinels and must not be shown.
func (s Snapshot) Empty() bool {
	return s.Samples == 0
}

// Absolute holds the run-wide bounds.
type Absolute struct {
	Min uint64
	Max uint64
}

// Tracker maintains interval and absolute min/max.
type Tracker struct {
	instMin uint64
	instMax uint64
	samples uint64

	absMin uint64
	absMax uint64
}

// New returns a Tracker with both tiers at their initial values.
func New() *Tracker {
	return &Tracker{
		instMin: Infinity,
		absMin:  Infinity,
	}
}

// Record folds one duration into both tiers.
//
// Max uses >= and min uses <. With the sentinels in place the first
// sample of a tier always sets both bounds.
func (t *Tracker) Record(d uint64) {
	if d < t.absMin {
		t.absMin = d
	}
	if d >= t.absMax {
		t.absMax = d
	}

	if d < t.instMin {
		t.instMin = d
	}
	if d >= t.instMax {
		t.instMax = d
	}
	t.samples++
}

// InstMin returns the current interval minimum without ending it.
func (t *Tracker) InstMin() uint64 {
	return t.instMin
}

// EndInterval returns the interval just completed and starts a new one.
func (t *Tracker) EndInterval() Snapshot {
	s := Snapshot{
		InstMin: t.instMin,
		InstMax: t.instMax,
		Samples: t.samples,
	}
	if s.Samples > 0 {
		s.Jitter = s.InstMax - s.InstMin
	}

	t.instMin = Infinity
	t.instMax = 0
	t.samples = 0
	return s
}

// Absolute returns the run-wide bounds.
func (t *Tracker) Absolute() Absolute {
	return Absolute{Min: t.absMin, Max: t.absMax}
}

// ResetAbsolute returns the run-wide bounds to their initial values.
// Call it only between EndInterval and the next Record.
func (t *Tracker) ResetAbsolute() {
	t.absMin = Infinity
	t.absMax = 0
}
