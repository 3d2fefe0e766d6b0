// Package clock abstracts wall-clock reads and throttling sleeps so the
// pacing delays are testable without real waits.
package clock

import "time"

type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// Real is the production clock.
type Real struct{}

func (Real) Now() time.Time        { return time.Now() }
func (Real) Sleep(d time.Duration) { time.Sleep(d) }

// NoSleep reads the real wall clock but skips throttling sleeps. Used for
// preview runs where pacing delays would only slow down the output.
type NoSleep struct {
	Real
}

func (NoSleep) Sleep(time.Duration) {}
