// Package sampler is the measurement loop.
//
// A Sampler runs the workload between two Clock reads, forever or for a
// bounded number of display intervals:
//
//	WARMUP     uncounted workload calls to settle caches and TLBs
//	RUNNING    start -> workload -> end -> record, repeated
//	TERMINATED sample number past the bound, or ctx done
//
// Everything that is not the timed region (printing, reset handling, the
// anomaly trigger, the termination check) happens between two samples,
// and everything that is not per-sample happens once per display
// interval. The loop holds no locks, and the timed region makes no
// allocations. Boundary work may allocate: a Printer can box or format
// the row.
package sampler

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/randomizedcoder/jitter/internal/cycles"
	"github.com/randomizedcoder/jitter/internal/report"
	"github.com/randomizedcoder/jitter/internal/reset"
	"github.com/randomizedcoder/jitter/internal/stats"
	"github.com/randomizedcoder/jitter/internal/trigger"
	"github.com/randomizedcoder/jitter/internal/workload"
)

// Config holds the loop shape.
type Config struct {
	// Loops is the workload iteration count per sample.
	Loops uint32

	// DisplayEvery is the number of samples per display interval. The
	// first interval has one extra sample.
	DisplayEvery uint32

	// Iterations is the sample number after which the loop stops.
	// Zero runs until ctx is done.
	Iterations uint64

	// Warmup is the number of uncounted workload calls before RUNNING.
	Warmup int

	// HeaderEvery repeats the header whenever the sample number is a
	// multiple of it.
	HeaderEvery uint64
}

// DefaultConfig returns the loop shape used when nothing is configured.
// At 80000 loops per sample, 20000 samples take about a second on a
// 3GHz core.
func DefaultConfig() Config {
	return Config{
		Loops:        workload.DefaultIterations,
		DisplayEvery: 20000,
		Iterations:   200,
		Warmup:       workload.DefaultPrime,
		HeaderEvery:  report.HeaderEvery,
	}
}

// Result summarizes a finished run.
type Result struct {
	Intervals   uint64 // display intervals completed, across resets
	Samples     uint64 // timed workload calls
	Resets      uint64 // reset requests acted on
	Accumulator uint32
	Absolute    stats.Absolute
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithResets sets where reset requests are taken from.
func WithResets(c reset.Consumer) Option {
	return func(s *Sampler) { s.resets = c }
}

// WithTrigger enables the anomaly trigger.
func WithTrigger(t *trigger.Trigger) Option {
	return func(s *Sampler) { s.trigger = t }
}

// WithLogger sets the logger for boundary events.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Sampler) { s.log = l }
}

// Sampler owns the statistics for one run.
type Sampler struct {
	cfg     Config
	clock   cycles.Clock
	out     report.Printer
	tracker *stats.Tracker
	resets  reset.Consumer
	trigger *trigger.Trigger
	log     logrus.FieldLogger
}

// New validates cfg and returns a Sampler writing to out.
func New(cfg Config, clock cycles.Clock, out report.Printer, opts ...Option) (*Sampler, error) {
	switch {
	case clock == nil:
		return nil, errors.New("sampler: nil clock")
	case out == nil:
		return nil, errors.New("sampler: nil printer")
	case cfg.Loops == 0:
		return nil, errors.New("sampler: loops must be positive")
	case cfg.DisplayEvery == 0:
		return nil, errors.New("sampler: display interval must be positive")
	case cfg.HeaderEvery == 0:
		return nil, errors.New("sampler: header cadence must be positive")
	case cfg.Warmup < 0:
		return nil, errors.New("sampler: warmup must not be negative")
	}

	s := &Sampler{
		cfg:     cfg,
		clock:   clock,
		out:     out,
		tracker: stats.New(),
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run measures until the configured bound or until ctx is done. ctx is
// only looked at on interval boundaries.
func (s *Sampler) Run(ctx context.Context) Result {
	var (
		res      Result
		sampleNo uint64
		tref     uint32
	)
	done := ctx.Done()
	loops := s.cfg.Loops
	every := s.cfg.DisplayEvery

	s.out.Header()

	seed := uint32(s.clock.Start())
	acc := workload.Prime(s.cfg.Warmup, loops, seed)
	lastEnd := s.clock.Start()

loop:
	for {
		start := s.clock.Start()
		acc += workload.Run(loops, seed)
		end := s.clock.End()

		exec := cycles.Elapsed(start, end)
		s.tracker.Record(exec)
		res.Samples++

		if s.trigger != nil {
			s.trigger.Observe(exec, s.tracker.InstMin(), sampleNo)
		}

		if tref < every {
			tref++
			continue
		}
		tref = 1

		snap := s.tracker.EndInterval()
		if sampleNo > 0 && !snap.Empty() {
			abs := s.tracker.Absolute()
			s.out.Line(report.Line{
				InstMin:     snap.InstMin,
				InstMax:     snap.InstMax,
				InstJitter:  snap.Jitter,
				LastExec:    exec,
				AbsMin:      abs.Min,
				AbsMax:      abs.Max,
				Accumulator: acc,
				Interval:    cycles.Elapsed(lastEnd, end),
				SampleNo:    sampleNo,
			})
		}
		sampleNo++
		res.Intervals++
		lastEnd = end

		if s.resets != nil && s.resets.Consume() {
			s.tracker.ResetAbsolute()
			sampleNo = 1
			res.Resets++
			if s.trigger != nil {
				s.trigger.Rearm()
			}
			s.log.WithField("interval", res.Intervals).Debug("Absolute statistics reset")
		}

		if sampleNo%s.cfg.HeaderEvery == 0 {
			s.out.Header()
		}

		if s.cfg.Iterations > 0 && sampleNo > s.cfg.Iterations {
			break
		}

		select {
		case <-done:
			break loop
		default:
		}
	}

	res.Accumulator = acc
	res.Absolute = s.tracker.Absolute()
	return res
}
