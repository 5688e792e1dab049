package workload_test

import (
	"testing"

	"github.com/randomizedcoder/jitter/internal/workload"
)

// reference is a direct transcription of the loop used to pin Run's
// arithmetic.
func reference(iterations, seed uint32) uint32 {
	a := seed
	for i := uint32(0); i < iterations; i++ {
		a = (a + 3*i + iterations) & 0x7f0f0000
	}
	return a
}

func TestRun_Deterministic(t *testing.T) {
	for _, seed := range []uint32{0, 1, 0xdeadbeef, 0xffffffff} {
		a := workload.Run(1000, seed)
		b := workload.Run(1000, seed)
		if a != b {
			t.Errorf("seed %#x: Run not deterministic: %#x != %#x", seed, a, b)
		}
	}
}

func TestRun_MatchesReference(t *testing.T) {
	testCases := []struct {
		iterations, seed uint32
	}{
		{0, 0},
		{0, 0x12345678},
		{1, 0},
		{7, 0xffffffff},
		{80000, 0xcafef00d},
		{100000, 42},
	}

	for _, tc := range testCases {
		got := workload.Run(tc.iterations, tc.seed)
		want := reference(tc.iterations, tc.seed)
		if got != want {
			t.Errorf("Run(%d, %#x) = %#x, want %#x", tc.iterations, tc.seed, got, want)
		}
	}
}

func TestRun_ZeroIterationsReturnsSeed(t *testing.T) {
	if got := workload.Run(0, 0xabc); got != 0xabc {
		t.Errorf("Run(0, 0xabc) = %#x, want seed unchanged", got)
	}
}

func TestRun_Masked(t *testing.T) {
	got := workload.Run(80000, 0xffffffff)
	if got&^0x7f0f0000 != 0 {
		t.Errorf("Run result %#x has bits outside the mask", got)
	}
}

func TestPrime(t *testing.T) {
	one := workload.Run(500, 9)
	if got := workload.Prime(4, 500, 9); got != 4*one {
		t.Errorf("Prime(4) = %#x, want %#x", got, 4*one)
	}
	if got := workload.Prime(0, 500, 9); got != 0 {
		t.Errorf("Prime(0) = %#x, want 0", got)
	}
}

func TestRun_NoAllocs(t *testing.T) {
	allocs := testing.AllocsPerRun(100, func() {
		_ = workload.Run(1000, 3)
	})
	if allocs != 0 {
		t.Errorf("Run allocated %.1f times per call", allocs)
	}
}
