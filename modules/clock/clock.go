package clock

import "time"

// Clock abstracts wall-clock reads so token expiry checks can be tested
// against a controlled time source.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}
