//go:build !amd64 && !arm64

package cycles

func hardwareClock() (Clock, error) {
	return nil, ErrCounterUnavailable
}

// Invariant returns false: there is no hardware counter on this
// architecture.
func Invariant() bool {
	return false
}
