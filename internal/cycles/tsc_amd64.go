//go:build amd64

package cycles

// tscStart issues MFENCE then reads the Time Stamp Counter with RDTSC.
// Implemented in tsc_amd64.s
func tscStart() uint64

// tscEnd reads the Time Stamp Counter with RDTSCP twice and returns the
// second value. RDTSCP waits for earlier instructions to retire but lets
// later ones start early; the second read pins the first one in place.
// Implemented in tsc_amd64.s
func tscEnd() uint64

// cpuid executes CPUID for the given leaf and subleaf.
// Implemented in tsc_amd64.s
func cpuid(eaxArg, ecxArg uint32) (eax, ebx, ecx, edx uint32)

const (
	extFeatureLeaf = 0x80000001
	powerMgmtLeaf  = 0x80000007

	rdtscpBit       = 1 << 27 // CPUID.80000001H:EDX[27]
	invariantTSCBit = 1 << 8  // CPUID.80000007H:EDX[8]
)

var (
	hasRDTSCP    bool
	invariantTSC bool
)

func init() {
	maxExt, _, _, _ := cpuid(0x80000000, 0)
	if maxExt >= extFeatureLeaf {
		_, _, _, edx := cpuid(extFeatureLeaf, 0)
		hasRDTSCP = edx&rdtscpBit != 0
	}
	if maxExt >= powerMgmtLeaf {
		_, _, _, edx := cpuid(powerMgmtLeaf, 0)
		invariantTSC = edx&invariantTSCBit != 0
	}
}

// TSC is the amd64 hardware Clock.
//
// Typical cost of a Start/End pair: ~40-80 cycles, dominated by the
// serializing RDTSCP pair.
type TSC struct{}

// Start returns the TSC after a full memory fence.
func (TSC) Start() uint64 { return tscStart() }

// End returns the TSC after all earlier instructions have retired.
func (TSC) End() uint64 { return tscEnd() }

// Name returns "tsc".
func (TSC) Name() string { return "tsc" }

// Hardware returns true.
func (TSC) Hardware() bool { return true }

func hardwareClock() (Clock, error) {
	if !hasRDTSCP {
		return nil, ErrCounterUnavailable
	}
	return TSC{}, nil
}

// Invariant reports whether the TSC ticks at a constant rate across
// P-, C- and T-state transitions. Without it, Calibrate is only valid
// for the current frequency and tick counts are not comparable across
// frequency changes.
func Invariant() bool {
	return invariantTSC
}
