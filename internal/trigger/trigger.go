// Package trigger notifies an external tracer the first time a sample
// spikes past the interval minimum by more than a threshold.
//
// The intended partner is a tracer waiting for a signal to snapshot its
// buffer, for example:
//
//	perf record -S -C$CPU -e intel_pt// -v
//
// run against the same core, and started with --pid pointing at it. The
// trigger fires at most once per reset epoch so the tracer captures the
// first anomaly rather than a stream of them.
package trigger

import (
	"errors"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultThreshold is the spike size, in ticks above the interval
	// minimum, that fires the trigger.
	DefaultThreshold = 15000

	// DefaultSettle is the number of display intervals that must pass
	// before the trigger may fire, so warm-up residue is not reported.
	DefaultSettle = 5
)

// ErrUnsupported is returned by NewSignalNotifier on platforms without
// user signals.
var ErrUnsupported = errors.New("trigger: signal notification not supported on this platform")

// Notifier delivers the one-shot notification.
type Notifier interface {
	Notify() error
}

// Config holds the firing conditions.
type Config struct {
	Threshold uint64 // ticks above the interval minimum
	Settle    uint64 // sample number that must be exceeded first
}

// Trigger is the armed/disarmed state plus the firing rule. It belongs
// to the sample loop and is not safe for concurrent use.
type Trigger struct {
	notifier  Notifier
	threshold uint64
	settle    uint64
	log       logrus.FieldLogger

	armed bool
	fired uint64
}

// New returns an armed Trigger.
func New(n Notifier, cfg Config, log logrus.FieldLogger) *Trigger {
	return &Trigger{
		notifier:  n,
		threshold: cfg.Threshold,
		settle:    cfg.Settle,
		log:       log,
		armed:     true,
	}
}

// Observe checks one sample and fires if the trigger is armed, the
// settle period is over and current exceeds instMin by more than the
// threshold. It reports whether a notification was attempted.
//
// A failed notification is logged and otherwise ignored; the trigger is
// disarmed either way.
func (t *Trigger) Observe(current, instMin, sampleNo uint64) bool {
	if !t.armed || sampleNo <= t.settle || current <= instMin {
		return false
	}
	excess := current - instMin
	if excess <= t.threshold {
		return false
	}

	t.armed = false
	t.fired++

	entry := t.log.WithFields(logrus.Fields{
		"sample":    sampleNo,
		"exec":      current,
		"inst_min":  instMin,
		"excess":    excess,
		"threshold": t.threshold,
	})
	if err := t.notifier.Notify(); err != nil {
		entry.WithError(err).Warn("Jitter threshold exceeded; tracer notification failed")
		return true
	}
	entry.Info("Jitter threshold exceeded; tracer notified")
	return true
}

// Rearm allows one more notification. The sample loop calls it when it
// resets the absolute statistics.
func (t *Trigger) Rearm() {
	t.armed = true
}

// Armed reports whether the next qualifying sample will fire.
func (t *Trigger) Armed() bool {
	return t.armed
}

// Fired returns the number of notifications attempted so far.
func (t *Trigger) Fired() uint64 {
	return t.fired
}
