// Package workload is the fixed unit of CPU work whose execution time is
// measured.
//
// Run is deliberately boring: a single loop of 32-bit adds and masks
// where every iteration depends on the previous accumulator. There is no
// memory traffic beyond registers, no allocation, no call and no branch
// other than the loop condition, so its own variance is near zero and
// whatever jitter shows up in the measurement comes from outside.
package workload

// DefaultIterations is the loop count per sample.
const DefaultIterations = 80000

// DefaultPrime is the number of uncounted warm-up invocations.
const DefaultPrime = 1000

// mask bounds the accumulator so the sum never settles into a pattern
// the compiler could fold.
const mask = 0x7f0f0000

// Run performs iterations rounds of a += 3*i + iterations; a &= mask,
// starting from seed, and returns the accumulator.
//
//go:noinline
func Run(iterations, seed uint32) uint32 {
	a := seed
	k := iterations
	for i := uint32(0); i < k; i++ {
		a += 3*i + k
		a &= mask
	}
	return a
}

// Prime runs n uncounted invocations so the first measured sample does
// not pay for cold caches, TLB misses or lazy page mapping. It returns
// the sum of the results so the calls cannot be discarded.
func Prime(n int, iterations, seed uint32) uint32 {
	var acc uint32
	for j := 0; j < n; j++ {
		acc += Run(iterations, seed)
	}
	return acc
}
