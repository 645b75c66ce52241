package timing

import (
	"log/slog"
	"time"
)

// driftCheckInterval is how many ticks pass between drift corrections.
const driftCheckInterval = TicksPerSecond

// AdaptiveLimiter uses precise timing with drift compensation.
// Combines sleep for efficiency with busy-waiting for accuracy.
type AdaptiveLimiter struct {
	targetTickTime time.Duration
	nextTickTime   time.Time
	tickCounter    int64
}

func NewAdaptiveLimiter() *AdaptiveLimiter {
	return &AdaptiveLimiter{
		targetTickTime: TickDuration(),
		nextTickTime:   time.Now(),
	}
}

func (a *AdaptiveLimiter) WaitForNextTick() {
	now := time.Now()
	sleepTime := a.nextTickTime.Sub(now)

	if sleepTime > 0 {
		if sleepTime < 500*time.Microsecond {
			for time.Now().Before(a.nextTickTime) {
				// busy-wait for short gaps, higher accuracy.
			}
		} else {
			time.Sleep(sleepTime - 200*time.Microsecond)
			for time.Now().Before(a.nextTickTime) {
			}
		}
	} else if sleepTime < -50*time.Millisecond {
		// too far behind, don't try to catch up
		a.nextTickTime = now
	}

	a.nextTickTime = a.nextTickTime.Add(a.targetTickTime)
	a.tickCounter++

	if a.tickCounter%driftCheckInterval == 0 {
		drift := time.Since(a.nextTickTime)
		if drift.Abs() > 10*time.Millisecond {
			a.nextTickTime = a.nextTickTime.Add(drift / 10)
			slog.Debug("Tick timing drift correction",
				"drift_ms", drift.Milliseconds(),
				"ticks", a.tickCounter)
		}
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.nextTickTime = time.Now()
	a.tickCounter = 0
}
