package cycles

import (
	_ "unsafe" // Required for go:linkname
)

// nanotime returns the current monotonic time in nanoseconds.
// This is faster than time.Now() because it returns a single int64
// and avoids constructing a time.Time struct.
//
// Note: This uses go:linkname to access an internal runtime function.
// It may break in future Go versions, though it has been stable.
//
//go:linkname nanotime runtime.nanotime
func nanotime() int64

// Monotonic is the fallback Clock. Ticks are nanoseconds.
//
// Start and End are plain reads; neither orders surrounding instructions.
type Monotonic struct{}

// Start returns the monotonic time in nanoseconds.
func (Monotonic) Start() uint64 { return uint64(nanotime()) }

// End returns the monotonic time in nanoseconds.
func (Monotonic) End() uint64 { return uint64(nanotime()) }

// Name returns "monotonic".
func (Monotonic) Name() string { return "monotonic" }

// Hardware returns false.
func (Monotonic) Hardware() bool { return false }
