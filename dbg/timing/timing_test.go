package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickDuration(t *testing.T) {
	assert.Equal(t, time.Millisecond, TickDuration())
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		expected interface{}
	}{
		{"none", &noOpLimiter{}},
		{"adaptive", &AdaptiveLimiter{}},
		{"unknown", &AdaptiveLimiter{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.IsType(t, tt.expected, New(tt.name))
		})
	}

	ticker := New("ticker")
	assert.IsType(t, &TickerLimiter{}, ticker)
	ticker.(*TickerLimiter).Stop()
}

func TestAdaptiveLimiter_Paces(t *testing.T) {
	l := NewAdaptiveLimiter()
	start := time.Now()
	for i := 0; i < 20; i++ {
		l.WaitForNextTick()
	}
	// the first tick is due immediately
	assert.GreaterOrEqual(t, time.Since(start), 19*time.Millisecond)
	assert.Equal(t, int64(20), l.tickCounter)

	l.Reset()
	assert.Equal(t, int64(0), l.tickCounter)
}

func TestDelayers(t *testing.T) {
	c := &CountingDelayer{}
	c.Delay(1)
	c.Delay(1)
	assert.Equal(t, 2, c.Calls)
	assert.Equal(t, 2, c.TotalMs)

	start := time.Now()
	SleepDelayer{}.Delay(2)
	assert.GreaterOrEqual(t, time.Since(start), 2*time.Millisecond)

	assert.NotPanics(t, func() { SleepDelayer{}.Delay(0) })
}
