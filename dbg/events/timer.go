package events

import "log/slog"

// TimerIRQLine is the interrupt line the PIT is wired to.
const TimerIRQLine = 0

// DefaultTimerInterval is 55 ticks, the 18.2 Hz BIOS clock rounded to whole
// milliseconds.
const DefaultTimerInterval = 55

// IRQRaiser accepts interrupt requests.
type IRQRaiser interface {
	Raise(irq uint8)
}

// Timer is the PIT channel 0: it raises IRQ0 every interval ticks.
type Timer struct {
	scheduler *Scheduler
	irq       IRQRaiser
	interval  uint64
	fired     uint64
}

// NewTimer creates the timer and registers its handler on the scheduler. It
// does nothing until Start is called.
func NewTimer(scheduler *Scheduler, irq IRQRaiser, interval uint64) *Timer {
	if interval == 0 {
		interval = DefaultTimerInterval
	}

	t := &Timer{
		scheduler: scheduler,
		irq:       irq,
		interval:  interval,
	}
	scheduler.Handle(TimerIRQ, t.processTick)
	return t
}

// Start schedules the first timer interrupt.
func (t *Timer) Start() {
	t.scheduler.ScheduleRelative(TimerIRQ, t.interval, nil)
}

// Fired returns how many times IRQ0 was raised.
func (t *Timer) Fired() uint64 {
	return t.fired
}

func (t *Timer) processTick(e Event) {
	t.fired++
	t.irq.Raise(TimerIRQLine)
	if t.fired%1000 == 0 {
		slog.Debug("Timer interrupts raised", "count", t.fired, "tick", e.Tick)
	}
	t.scheduler.ScheduleRelative(TimerIRQ, t.interval, nil)
}
