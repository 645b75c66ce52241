package debugger

import (
	"log/slog"

	"github.com/valerio/go-dbg/dbg/cpu"
	"github.com/valerio/go-dbg/dbg/render"
	"github.com/valerio/go-dbg/dbg/timing"
)

// Diverged reports whether control moved between two execution points.
func Diverged(before, after cpu.ExecPoint) bool {
	return before != after
}

// Detector is the debug loop. Each tick it lets pending interrupts run and
// hands control back to the normal loop as soon as one of them moved CS:EIP.
type Detector struct {
	events render.EventPump
	regs   *cpu.Registers
	irqs   InterruptRunner
	delay  timing.Delayer
	loops  LoopInstaller
	state  *State

	checkKeys func() uint32
}

// Poll runs one debug tick. It returns 0 when control went back to the
// normal loop, otherwise the key check result.
func (d *Detector) Poll() uint32 {
	d.events.PollEvents()

	before := d.regs.ExecPoint()
	d.irqs.RunIRQs()
	d.delay.Delay(1)
	after := d.regs.ExecPoint()

	if Diverged(before, after) {
		d.state.setDebugging(false)
		d.loops.UninstallToNormal()
		slog.Info("Interrupt moved execution, leaving debug mode", "from", before, "to", after)
		return 0
	}

	if d.checkKeys == nil {
		return 0
	}
	return d.checkKeys()
}
