//go:build !unix

package trigger

// SignalNotifier is unavailable on this platform.
type SignalNotifier struct {
	PID int
}

// NewSignalNotifier returns ErrUnsupported.
func NewSignalNotifier(pid int) (*SignalNotifier, error) {
	return nil, ErrUnsupported
}

// Notify returns ErrUnsupported.
func (n *SignalNotifier) Notify() error { return ErrUnsupported }

// Probe returns ErrUnsupported.
func (n *SignalNotifier) Probe() error { return ErrUnsupported }
