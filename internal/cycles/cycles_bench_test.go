package cycles_test

import (
	"testing"

	"github.com/randomizedcoder/jitter/internal/cycles"
)

// Sink variable to prevent compiler from eliminating benchmark loops
var sinkTicks uint64

func benchmarkPair(b *testing.B, c cycles.Clock) {
	b.ReportAllocs()
	b.ResetTimer()

	var result uint64
	for i := 0; i < b.N; i++ {
		start := c.Start()
		end := c.End()
		result += cycles.Elapsed(start, end)
	}
	sinkTicks = result
}

func BenchmarkClock_Monotonic_Pair(b *testing.B) {
	benchmarkPair(b, cycles.Monotonic{})
}

func BenchmarkClock_Hardware_Pair(b *testing.B) {
	c, err := cycles.New(cycles.KindTSC)
	if err != nil {
		b.Skipf("no hardware counter: %v", err)
	}
	benchmarkPair(b, c)
}

func BenchmarkElapsed(b *testing.B) {
	b.ReportAllocs()
	var result uint64
	for i := 0; i < b.N; i++ {
		result += cycles.Elapsed(uint64(i), 1<<20)
	}
	sinkTicks = result
}
