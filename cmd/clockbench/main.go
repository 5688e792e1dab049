// Command clockbench compares the time sources jitter can sample with.
//
// It reads each clock back to back and reports the smallest and largest
// Start/End delta, which is the floor jitter can resolve and the noise
// that the read itself adds.
//
// Usage:
//
//	go run ./cmd/clockbench -n 1000000
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/randomizedcoder/jitter/internal/cycles"
)

type clockResult struct {
	name     string
	elapsed  time.Duration
	min, max uint64
	mean     float64
	perNs    float64
}

func main() {
	iterations := flag.IntP("iterations", "n", 1_000_000, "number of back-to-back reads per clock")
	calibrate := flag.Duration("calibrate", cycles.DefaultCalibration, "calibration window")
	flag.Parse()

	if *iterations <= 0 {
		fmt.Fprintln(os.Stderr, "error: iterations must be positive")
		os.Exit(2)
	}

	fmt.Printf("Benchmarking clock reads (%d iterations)\n", *iterations)
	fmt.Printf("Architecture: %s/%s  invariant counter: %v\n", runtime.GOOS, runtime.GOARCH, cycles.Invariant())
	fmt.Println("─────────────────────────────────────────────────")

	clocks := []cycles.Clock{cycles.Monotonic{}}
	if c, err := cycles.New(cycles.KindTSC); err == nil {
		clocks = append(clocks, c)
	} else {
		fmt.Printf("Hardware counter skipped: %v\n", err)
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	results := make([]clockResult, len(clocks))
	for i, c := range clocks {
		results[i] = measure(c, *iterations)
		results[i].perNs = cycles.Calibrate(c, *calibrate)
	}

	fmt.Printf("\nResults:\n")
	fmt.Printf("  %-12s %12s  %10s  %10s  %10s  %10s  %8s\n",
		"clock", "total", "ns/pair", "min", "max", "mean", "ticks/ns")
	for _, r := range results {
		perOp := float64(r.elapsed.Nanoseconds()) / float64(*iterations)
		fmt.Printf("  %-12s %12v  %10.2f  %10d  %10d  %10.2f  %8.3f\n",
			r.name, r.elapsed, perOp, r.min, r.max, r.mean, r.perNs)
	}

	fmt.Printf("\nNote: min/max/mean are in each clock's own ticks; the monotonic clock ticks in nanoseconds.\n")
}

func measure(c cycles.Clock, n int) clockResult {
	r := clockResult{name: c.Name(), min: ^uint64(0)}
	var sum uint64

	start := time.Now()
	for i := 0; i < n; i++ {
		s := c.Start()
		e := c.End()
		d := cycles.Elapsed(s, e)
		if d < r.min {
			r.min = d
		}
		if d > r.max {
			r.max = d
		}
		sum += d
	}
	r.elapsed = time.Since(start)
	r.mean = float64(sum) / float64(n)
	return r
}
