package pic

import (
	"log/slog"

	"github.com/valerio/go-dbg/dbg/bit"
)

const (
	// Lines is the number of IRQ lines on the controller.
	Lines = 8

	// DefaultVectorBase maps IRQ0..7 to interrupts 08h..0Fh.
	DefaultVectorBase uint8 = 0x08
)

// Target is the CPU that services the interrupts.
type Target interface {
	InterruptsEnabled() bool
	Interrupt(n uint8)
}

// Controller is a single 8259 style programmable interrupt controller.
type Controller struct {
	target     Target
	vectorBase uint8

	requested uint8 // IRR
	masked    uint8 // IMR

	serviced uint64
}

// New returns a controller delivering interrupts to target.
func New(target Target) *Controller {
	return &Controller{
		target:     target,
		vectorBase: DefaultVectorBase,
	}
}

// Raise requests service for irq.
func (c *Controller) Raise(irq uint8) {
	if irq >= Lines {
		slog.Warn("Ignoring out of range IRQ", "irq", irq)
		return
	}
	c.requested |= 1 << irq
}

// Lower withdraws a pending request for irq.
func (c *Controller) Lower(irq uint8) {
	if irq >= Lines {
		return
	}
	c.requested &^= 1 << irq
}

// SetMask sets the interrupt mask register.
func (c *Controller) SetMask(mask uint8) {
	c.masked = mask
}

// Pending reports whether any unmasked IRQ is waiting.
func (c *Controller) Pending() bool {
	return c.requested&^c.masked != 0
}

// Serviced returns how many IRQs have been delivered to the CPU.
func (c *Controller) Serviced() uint64 {
	return c.serviced
}

// RunIRQs delivers the highest priority pending IRQ to the CPU, if the CPU
// accepts interrupts. At most one IRQ is serviced per call.
func (c *Controller) RunIRQs() {
	if !c.Pending() || !c.target.InterruptsEnabled() {
		return
	}

	pending := c.requested &^ c.masked
	for irq := uint8(0); irq < Lines; irq++ {
		if !bit.IsSet(irq, pending) {
			continue
		}

		c.requested &^= 1 << irq
		c.serviced++
		c.target.Interrupt(c.vectorBase + irq)

		slog.Debug("IRQ serviced", "irq", irq, "vector", c.vectorBase+irq)
		return
	}
}
