//go:build arm64

package cycles

// cntvctStart issues DSB SY and ISB, then reads CNTVCT_EL0.
// Implemented in counter_arm64.s
func cntvctStart() uint64

// cntvctEnd reads CNTVCT_EL0 twice, each read preceded by an ISB, and
// returns the second value.
// Implemented in counter_arm64.s
func cntvctEnd() uint64

// cntfrq reads the counter frequency from CNTFRQ_EL0.
// Implemented in counter_arm64.s
func cntfrq() uint64

// CNTVCT is the arm64 hardware Clock: the architectural generic timer's
// virtual count. It runs at CNTFRQ_EL0 (typically 24MHz-1GHz), not at
// the core clock, so resolution is coarser than a TSC.
type CNTVCT struct{}

// Start returns the virtual count after a full barrier.
func (CNTVCT) Start() uint64 { return cntvctStart() }

// End returns the virtual count after earlier instructions complete.
func (CNTVCT) End() uint64 { return cntvctEnd() }

// Name returns "cntvct_el0".
func (CNTVCT) Name() string { return "cntvct_el0" }

// Hardware returns true.
func (CNTVCT) Hardware() bool { return true }

// Frequency returns CNTFRQ_EL0 in Hz.
func (CNTVCT) Frequency() uint64 { return cntfrq() }

func hardwareClock() (Clock, error) {
	if cntfrq() == 0 {
		return nil, ErrCounterUnavailable
	}
	return CNTVCT{}, nil
}

// Invariant reports whether the counter rate is constant. The generic
// timer runs at a fixed system frequency by architecture.
func Invariant() bool {
	return true
}
