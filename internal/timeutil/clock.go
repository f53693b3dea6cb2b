package timeutil

import "time"

// Clock abstracts wall-clock access so handlers can be tested with frozen time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// MinutesSince returns the floating-point minutes elapsed between start and now.
func MinutesSince(now, start time.Time) float64 {
	return now.Sub(start).Minutes()
}
