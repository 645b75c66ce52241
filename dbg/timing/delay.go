package timing

import "time"

// Delayer yields the host for a number of milliseconds. The debug loop uses
// it to avoid spinning while it waits for an interrupt.
type Delayer interface {
	Delay(ms int)
}

// SleepDelayer sleeps on the host clock.
type SleepDelayer struct{}

func (SleepDelayer) Delay(ms int) {
	if ms <= 0 {
		return
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// CountingDelayer doesn't sleep, it only records the requested time. Useful
// for headless runs and tests.
type CountingDelayer struct {
	Calls   int
	TotalMs int
}

func (c *CountingDelayer) Delay(ms int) {
	c.Calls++
	c.TotalMs += ms
}
