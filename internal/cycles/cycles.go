// Package cycles provides the time-stamp sources used to time one
// workload invocation.
//
// Two kinds of Clock are available:
//   - a hardware cycle counter read with serializing instructions
//     (TSC on amd64, CNTVCT_EL0 on arm64)
//   - a monotonic fallback backed by runtime.nanotime
//
// The fallback exists for architectures without a usable counter. It has
// a coarser resolution and no serialization guarantees, so jitter figures
// taken with it are an upper bound rather than a measurement of the core.
package cycles

import (
	"errors"
	"fmt"
)

// ErrCounterUnavailable is returned when a hardware counter was requested
// but the CPU or architecture cannot provide a serializing read.
var ErrCounterUnavailable = errors.New("cycles: serializing hardware cycle counter not available")

// Clock reads a free-running counter around a timed region.
//
// Start and End are not interchangeable: Start orders every earlier
// instruction before the read, End waits for every earlier instruction to
// retire before reading. Implementations have constant cost and never
// allocate, block or log.
type Clock interface {
	// Start returns the counter value at the beginning of a timed region.
	Start() uint64

	// End returns the counter value at the end of a timed region.
	End() uint64

	// Name identifies the counter, e.g. "tsc" or "monotonic".
	Name() string

	// Hardware reports whether the clock reads a CPU cycle counter.
	Hardware() bool
}

// Kind selects a Clock implementation.
type Kind string

const (
	// KindAuto picks the hardware counter when present, the monotonic
	// clock otherwise.
	KindAuto Kind = "auto"
	// KindTSC requires the hardware counter.
	KindTSC Kind = "tsc"
	// KindMonotonic forces the runtime monotonic clock.
	KindMonotonic Kind = "monotonic"
)

// Kinds lists the accepted Kind values.
var Kinds = []Kind{KindAuto, KindTSC, KindMonotonic}

// ParseKind validates a clock name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("cycles: unknown clock %q (want auto, tsc or monotonic)", s)
}

// New returns the Clock for kind.
//
// KindTSC fails with ErrCounterUnavailable when the hardware counter is
// missing. KindAuto never fails: it silently degrades to the monotonic
// clock, and the caller is expected to check Hardware() and say so.
func New(kind Kind) (Clock, error) {
	switch kind {
	case KindMonotonic:
		return Monotonic{}, nil
	case KindTSC:
		return hardwareClock()
	case KindAuto, "":
		if c, err := hardwareClock(); err == nil {
			return c, nil
		}
		return Monotonic{}, nil
	default:
		return nil, fmt.Errorf("cycles: unknown clock %q", kind)
	}
}

// Elapsed returns the absolute difference between two raw counter reads.
//
// The two reads are not guaranteed to be ordered: frequency transitions,
// counter resets and cross-core migration can all produce end < start.
func Elapsed(start, end uint64) uint64 {
	if start > end {
		return start - end
	}
	return end - start
}
