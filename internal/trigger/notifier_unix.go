//go:build unix

package trigger

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// SignalNotifier sends SIGUSR2 to a process.
type SignalNotifier struct {
	PID    int
	Signal unix.Signal
}

// NewSignalNotifier returns a notifier for pid.
func NewSignalNotifier(pid int) (*SignalNotifier, error) {
	if pid <= 0 {
		return nil, fmt.Errorf("trigger: invalid target pid %d", pid)
	}
	return &SignalNotifier{PID: pid, Signal: unix.SIGUSR2}, nil
}

// Notify delivers the signal.
func (n *SignalNotifier) Notify() error {
	if err := unix.Kill(n.PID, n.Signal); err != nil {
		return fmt.Errorf("trigger: send %s to pid %d: %w", unix.SignalName(n.Signal), n.PID, err)
	}
	return nil
}

// Probe checks that the target exists and may be signalled, without
// sending anything.
func (n *SignalNotifier) Probe() error {
	if err := unix.Kill(n.PID, 0); err != nil {
		return fmt.Errorf("trigger: probe pid %d: %w", n.PID, err)
	}
	return nil
}
