package application

import "time"

// Clock abstracts "now" so the scheduler and use cases can be driven by
// synthetic time in tests instead of waiting on real clocks.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock. All tracker times are UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
