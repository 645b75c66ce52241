package timing

import "time"

// Limiter controls tick pacing for emulation.
type Limiter interface {
	// WaitForNextTick blocks until it's time for the next tick.
	// Returns immediately if timing is behind schedule.
	WaitForNextTick()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextTick() {}
func (n *noOpLimiter) Reset()           {}

// TicksPerSecond is the emulation tick rate. One tick is one millisecond of
// emulated time, the unit the PIC and the debug loop work in.
const TicksPerSecond = 1000

// TickDuration returns the target duration of a single tick.
func TickDuration() time.Duration {
	return time.Second / TicksPerSecond
}

// New returns the limiter registered under name: "none", "ticker" or
// "adaptive". Unknown names fall back to the adaptive limiter.
func New(name string) Limiter {
	switch name {
	case "none":
		return NewNoOpLimiter()
	case "ticker":
		return NewTickerLimiter()
	default:
		return NewAdaptiveLimiter()
	}
}
