package reset

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ErrUnsupported is returned by NewWatcher on platforms without a user
// signal to listen on.
var ErrUnsupported = errors.New("reset: user signals not supported on this platform")

// noticeInterval limits how often a reset notice is logged when an
// operator fires signals in a loop.
const noticeInterval = time.Second

// Watcher turns the reset signal (SIGUSR1) into Request calls.
//
// Its goroutine does nothing but set the flag and log; it never touches
// statistics.
type Watcher struct {
	req        Requester
	log        logrus.FieldLogger
	notices    *rate.Limiter
	sigCh      chan os.Signal
	suppressed int
}

// NewWatcher subscribes to the reset signal. Signals are queued from
// this point on, but are only turned into requests once Run is called.
func NewWatcher(req Requester, log logrus.FieldLogger) (*Watcher, error) {
	w := &Watcher{
		req:     req,
		log:     log,
		notices: rate.NewLimiter(rate.Every(noticeInterval), 1),
		sigCh:   make(chan os.Signal, 1),
	}
	if err := w.install(); err != nil {
		return nil, err
	}
	return w, nil
}

// Run forwards signals until ctx is done, then unsubscribes and logs
// any notices the rate limit held back.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.flush()
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.sigCh:
			w.req.Request()
			w.notice()
		}
	}
}

// Stop unsubscribes from the reset signal. Later signals get the
// default disposition.
func (w *Watcher) Stop() {
	signal.Stop(w.sigCh)
}

func (w *Watcher) notice() {
	if !w.notices.Allow() {
		w.suppressed++
		return
	}
	entry := w.log.WithField("signal", resetSignalName)
	if w.suppressed > 0 {
		entry = entry.WithField("coalesced", w.suppressed)
		w.suppressed = 0
	}
	entry.Info("Resetting absolute min and max at next display update")
}

func (w *Watcher) flush() {
	if w.suppressed == 0 {
		return
	}
	w.log.WithFields(logrus.Fields{
		"signal":    resetSignalName,
		"coalesced": w.suppressed,
	}).Info("Reset requests received since the last notice")
	w.suppressed = 0
}
