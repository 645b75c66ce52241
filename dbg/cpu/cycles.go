package cpu

// Cycles are the counters of the current instruction batch. Cycles is the
// budget still to run in this batch, CycleLeft the budget carried over to
// the next one.
type Cycles struct {
	Cycles    int32
	CycleLeft int32
}

// Abandon zeroes both counters so the running batch stops after the current
// instruction.
func (c *Cycles) Abandon() {
	c.Cycles = 0
	c.CycleLeft = 0
}

// Remaining returns the budget still available across both counters.
func (c *Cycles) Remaining() int32 {
	return c.Cycles + c.CycleLeft
}
