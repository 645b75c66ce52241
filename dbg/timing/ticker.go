package timing

import "time"

// TickerLimiter uses time.Ticker for simple, consistent tick timing.
// Less accurate than AdaptiveLimiter but simpler and good enough for most cases.
type TickerLimiter struct {
	ticker *time.Ticker
	ch     <-chan time.Time
}

func NewTickerLimiter() *TickerLimiter {
	ticker := time.NewTicker(TickDuration())
	return &TickerLimiter{
		ticker: ticker,
		ch:     ticker.C,
	}
}

func (t *TickerLimiter) WaitForNextTick() {
	<-t.ch
}

func (t *TickerLimiter) Reset() {
	t.ticker.Reset(TickDuration())
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
