// Package reset carries the operator's "reset absolute statistics"
// request from an asynchronous signal to the sample loop.
//
// The request is a single atomic flag. The producer side (Watcher, or
// anything else holding a Requester) only ever sets it; the sample loop
// reads and clears it at an interval boundary with Consume. Requests
// arriving before the loop gets there collapse into one.
//
// Typical performance:
//   - Flag.Request(): ~1ns (one atomic store)
//   - Flag.Consume(): ~1-5ns (one atomic swap, once per display interval)
package reset

import "sync/atomic"

// Requester asks for a reset.
//
// Implementations must be safe to call from any goroutine at any time,
// including while the sample loop is mid-sample.
type Requester interface {
	Request()
}

// Consumer takes a pending reset, if any.
type Consumer interface {
	// Consume reports whether a reset was pending and clears it.
	Consume() bool
}

// Flag is the lock-free pending-reset flag. The zero value is ready to
// use and has nothing pending.
type Flag struct {
	pending atomic.Bool
}

// NewFlag creates a new Flag.
func NewFlag() *Flag {
	return &Flag{}
}

// Request marks a reset as pending.
//
// Safe to call multiple times; requests before the next Consume are
// indistinguishable from one.
func (f *Flag) Request() {
	f.pending.Store(true)
}

// Pending reports whether a reset is waiting, without clearing it.
func (f *Flag) Pending() bool {
	return f.pending.Load()
}

// Consume atomically reads and clears the flag.
//
// Only the sample loop should call this, and only at an interval
// boundary.
func (f *Flag) Consume() bool {
	return f.pending.Swap(false)
}
