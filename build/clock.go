package build

import "time"

// Clock is the narrow time source the core depends on, so tests can
// substitute a fixed clock instead of the wall clock.
type Clock interface {
	Now() uint64
}

// StdClock reads the system clock.
type StdClock struct{}

// Now returns the current UNIX time in seconds.
func (StdClock) Now() uint64 {
	return uint64(time.Now().Unix())
}
