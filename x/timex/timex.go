package timex

import (
	"errors"
	"time"
)

// Clock is the time source used by pollers and settle delays.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type sysClock struct{}

func (sysClock) Now() time.Time        { return time.Now() }
func (sysClock) Sleep(d time.Duration) { time.Sleep(d) }

// System uses time.Now (monotonic) and time.Sleep.
var System Clock = sysClock{}

// ErrDeadline is returned by PollUntil when the condition never held in time.
var ErrDeadline = errors.New("deadline exceeded")

// PollUntil calls cond until it reports true, returns an error, or timeout
// has elapsed on c. cond runs at least once. interval <= 0 polls back to back.
// The number of cond calls is returned in every case.
func PollUntil(c Clock, timeout, interval time.Duration, cond func() (bool, error)) (int, error) {
	if c == nil {
		c = System
	}
	deadline := c.Now().Add(timeout)
	n := 0
	for {
		n++
		ok, err := cond()
		if err != nil {
			return n, err
		}
		if ok {
			return n, nil
		}
		if !c.Now().Before(deadline) {
			return n, ErrDeadline
		}
		if interval > 0 {
			c.Sleep(interval)
		}
	}
}
