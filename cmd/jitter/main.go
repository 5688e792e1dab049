// Command jitter measures execution-time jitter of a fixed workload on
// the CPU it runs on.
//
// Usage:
//
//	taskset -c 3 jitter -l 80000 -r 20000 -i 200
//
// Send SIGUSR1 to reset the absolute min/max columns. With --pid, the
// first spike above --threshold sends SIGUSR2 to that process.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/randomizedcoder/jitter/internal/config"
	"github.com/randomizedcoder/jitter/internal/cycles"
	"github.com/randomizedcoder/jitter/internal/report"
	"github.com/randomizedcoder/jitter/internal/reset"
	"github.com/randomizedcoder/jitter/internal/sampler"
	"github.com/randomizedcoder/jitter/internal/trigger"
)

var version = "1.8.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	cfg, err := config.Parse("jitter", args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	if cfg.Version {
		fmt.Fprintf(stdout, "jitter %s\n", version)
		return 0
	}

	log := setupLogger(cfg.LogLevel, stderr)

	clock, err := cycles.New(cfg.Clock)
	if err != nil {
		log.WithError(err).WithField("clock", cfg.Clock).Error("No usable time source")
		return 1
	}
	switch {
	case !clock.Hardware():
		log.WithField("clock", clock.Name()).Warn("No serializing hardware cycle counter; timings are nanoseconds from the OS clock and include its read overhead")
	case !cycles.Invariant():
		log.WithField("clock", clock.Name()).Warn("Counter rate is not invariant; frequency changes will show up as jitter")
	}

	fmt.Fprintf(stdout, "Linux Jitter testing program version %s\n", version)
	fmt.Fprintf(stdout, "The program will execute a dummy function %d times\n", cfg.Loops)
	fmt.Fprintf(stdout, "Display is updated every %d displayUpdate intervals\n", cfg.Rate)
	if showLegend(cfg.Legend, stdout) {
		if err := report.Legend(stdout); err != nil {
			log.WithError(err).Warn("Failed to write legend")
		}
	}

	log.WithFields(logrus.Fields{
		"clock":        clock.Name(),
		"ticks_per_ns": fmt.Sprintf("%.3f", cycles.Calibrate(clock, cycles.DefaultCalibration)),
		"invariant":    cycles.Invariant(),
	}).Info("Time source selected")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	opts := []sampler.Option{sampler.WithLogger(log)}

	resets := reset.NewFlag()
	if w, err := reset.NewWatcher(resets, log); err != nil {
		log.WithError(err).Warn("Reset handler not installed; absolute statistics cannot be reset with SIGUSR1")
	} else {
		opts = append(opts, sampler.WithResets(resets))
		g.Go(func() error { return w.Run(gctx) })
	}

	if cfg.TriggerEnabled() {
		if tr := newTrigger(cfg, log); tr != nil {
			opts = append(opts, sampler.WithTrigger(tr))
		}
	}

	var (
		out   report.Printer = report.NewWriter(stdout)
		async *report.Async
	)
	if cfg.AsyncReport {
		if async, err = report.NewAsync(stdout); err != nil {
			log.WithError(err).Warn("Async report unavailable; writing rows inline")
			async = nil
		} else {
			out = async
			g.Go(func() error { return async.Run(gctx) })
		}
	}

	s, err := sampler.New(sampler.Config{
		Loops:        cfg.Loops,
		DisplayEvery: cfg.Rate,
		Iterations:   cfg.Iterations,
		Warmup:       cfg.Warmup,
		HeaderEvery:  cfg.HeaderEvery,
	}, clock, out, opts...)
	if err != nil {
		log.WithError(err).Error("Invalid sampler configuration")
		cancel()
		_ = g.Wait()
		return 2
	}

	// Keep the loop on one OS thread so external CPU pinning applies to it
	runtime.LockOSThread()
	res := s.Run(ctx)
	runtime.UnlockOSThread()

	if async != nil {
		async.Close()
		if d := async.Dropped(); d > 0 {
			log.WithField("dropped", d).Warn("Report rows dropped; the writer could not keep up")
		}
	}
	cancel()
	if err := g.Wait(); err != nil {
		log.WithError(err).Warn("Report stream error")
	}

	log.WithFields(logrus.Fields{
		"intervals": res.Intervals,
		"samples":   res.Samples,
		"resets":    res.Resets,
		"abs_min":   res.Absolute.Min,
		"abs_max":   res.Absolute.Max,
	}).Debug("Run complete")
	return 0
}

func setupLogger(level logrus.Level, out *os.File) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(level)
	return logger
}

// newTrigger builds the anomaly trigger, or returns nil if the platform
// cannot deliver the notification.
func newTrigger(cfg *config.Config, log *logrus.Logger) *trigger.Trigger {
	entry := log.WithField("pid", cfg.PID)

	n, err := trigger.NewSignalNotifier(cfg.PID)
	if err != nil {
		entry.WithError(err).Warn("Tracer trigger disabled")
		return nil
	}
	if err := n.Probe(); err != nil {
		entry.WithError(err).Warn("Tracer not reachable now; the notification will still be attempted")
	}

	entry.WithFields(logrus.Fields{
		"threshold": cfg.Threshold,
		"settle":    cfg.Settle,
	}).Info("Tracer trigger armed")

	return trigger.New(n, trigger.Config{
		Threshold: cfg.Threshold,
		Settle:    cfg.Settle,
	}, entry)
}

func showLegend(mode string, stdout *os.File) bool {
	switch mode {
	case config.LegendAlways:
		return true
	case config.LegendNever:
		return false
	default:
		return term.IsTerminal(int(stdout.Fd()))
	}
}
