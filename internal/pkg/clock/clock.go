// Package clock abstracts the wall clock for components that stamp or
// schedule work, so tests can pin time to a fixed instant.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// System returns the wall clock.
func System() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Frozen is a Clock pinned to a fixed instant until advanced.
type Frozen struct {
	now time.Time
}

func Freeze(t time.Time) *Frozen {
	return &Frozen{now: t}
}

func (f *Frozen) Now() time.Time {
	return f.now
}

func (f *Frozen) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}
