package stats_test

import (
	"math/rand"
	"testing"

	"github.com/randomizedcoder/jitter/internal/stats"
)

func TestTracker_Initial(t *testing.T) {
	tr := stats.New()

	abs := tr.Absolute()
	if abs.Min != stats.Infinity || abs.Max != 0 {
		t.Errorf("initial Absolute() = %+v, want {Infinity 0}", abs)
	}
	if tr.InstMin() != stats.Infinity {
		t.Errorf("initial InstMin() = %d, want Infinity", tr.InstMin())
	}
}

func TestTracker_Interval(t *testing.T) {
	tr := stats.New()
	for _, d := range []uint64{100, 50, 200, 75} {
		tr.Record(d)
	}

	got := tr.EndInterval()
	want := stats.Snapshot{InstMin: 50, InstMax: 200, Jitter: 150, Samples: 4}
	if got != want {
		t.Errorf("EndInterval() = %+v, want %+v", got, want)
	}

	abs := tr.Absolute()
	if abs != (stats.Absolute{Min: 50, Max: 200}) {
		t.Errorf("Absolute() = %+v, want {50 200}", abs)
	}
}

func TestTracker_EndIntervalResets(t *testing.T) {
	tr := stats.New()
	tr.Record(10)
	tr.Record(20)
	tr.EndInterval()

	tr.Record(15)
	got := tr.EndInterval()
	if got.InstMin != 15 || got.InstMax != 15 || got.Jitter != 0 || got.Samples != 1 {
		t.Errorf("second interval = %+v, want {15 15 0 1}", got)
	}

	// Absolute bounds span both intervals
	if abs := tr.Absolute(); abs != (stats.Absolute{Min: 10, Max: 20}) {
		t.Errorf("Absolute() = %+v, want {10 20}", abs)
	}
}

func TestTracker_ResetAbsolute(t *testing.T) {
	tr := stats.New()
	for _, d := range []uint64{100, 50, 200, 75} {
		tr.Record(d)
	}
	tr.EndInterval()

	tr.ResetAbsolute()
	if abs := tr.Absolute(); abs != (stats.Absolute{Min: stats.Infinity, Max: 0}) {
		t.Errorf("after reset Absolute() = %+v, want {Infinity 0}", abs)
	}

	tr.Record(30)
	if abs := tr.Absolute(); abs != (stats.Absolute{Min: 30, Max: 30}) {
		t.Errorf("after reset and Record(30) Absolute() = %+v, want {30 30}", abs)
	}
}

func TestTracker_FirstSampleSetsBothBounds(t *testing.T) {
	testCases := []uint64{0, 1, 12345, stats.Infinity - 1, stats.Infinity}

	for _, d := range testCases {
		tr := stats.New()
		tr.Record(d)

		snap := tr.EndInterval()
		if snap.InstMax != d {
			t.Errorf("Record(%d): InstMax = %d", d, snap.InstMax)
		}
		if d < stats.Infinity && snap.InstMin != d {
			t.Errorf("Record(%d): InstMin = %d", d, snap.InstMin)
		}
		if abs := tr.Absolute(); abs.Max != d {
			t.Errorf("Record(%d): AbsMax = %d", d, abs.Max)
		}
	}
}

func TestTracker_EmptyInterval(t *testing.T) {
	tr := stats.New()
	snap := tr.EndInterval()

	if !snap.Empty() {
		t.Error("expected Empty() = true with no samples")
	}
	if snap.Jitter != 0 {
		t.Errorf("empty interval Jitter = %d, want 0", snap.Jitter)
	}
}

func TestTracker_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tr := stats.New()

	prevAbs := tr.Absolute()
	for interval := 0; interval < 50; interval++ {
		n := 1 + rng.Intn(200)
		ds := make([]uint64, n)
		for i := range ds {
			ds[i] = uint64(rng.Int63n(1_000_000))
			tr.Record(ds[i])

			abs := tr.Absolute()
			if abs.Min > prevAbs.Min {
				t.Fatalf("AbsMin increased without reset: %d -> %d", prevAbs.Min, abs.Min)
			}
			if abs.Max < prevAbs.Max {
				t.Fatalf("AbsMax decreased without reset: %d -> %d", prevAbs.Max, abs.Max)
			}
			prevAbs = abs
		}

		snap := tr.EndInterval()
		if snap.Samples != uint64(n) {
			t.Fatalf("interval %d: Samples = %d, want %d", interval, snap.Samples, n)
		}
		for _, d := range ds {
			if d < snap.InstMin || d > snap.InstMax {
				t.Fatalf("interval %d: %d outside [%d, %d]", interval, d, snap.InstMin, snap.InstMax)
			}
		}
		if snap.Jitter != snap.InstMax-snap.InstMin {
			t.Fatalf("interval %d: Jitter = %d, want %d", interval, snap.Jitter, snap.InstMax-snap.InstMin)
		}
	}
}
