package cpu

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-dbg/dbg/memory"
)

// Bus provides the memory access used by the CPU.
type Bus interface {
	Read(address uint32) byte
	Write(address uint32, value byte)
	ReadW(address uint32) uint16
	WriteW(address uint32, value uint16)
}

// TrapRunner runs the host callback identified by number. It is reached
// through the callback escape opcode.
type TrapRunner interface {
	Run(number uint16) error
}

const (
	opNOP      = 0x90
	opJMPShort = 0xEB
	opINT      = 0xCD
	opIRET     = 0xCF
	opRETF     = 0xCB
	opHLT      = 0xF4
	opCLI      = 0xFA
	opSTI      = 0xFB

	// opGRP4 followed by opCallback and a 16 bit callback number is the
	// host callback escape.
	opGRP4     = 0xFE
	opCallback = 0x38
)

// CPU is a minimal real-mode interpreter. It understands just enough
// instructions to run callback stubs, software interrupts and idle loops.
type CPU struct {
	Regs   Registers
	Cycles Cycles

	halted bool

	bus   Bus
	traps TrapRunner
}

// New returns a CPU reset to F000:FFF0 with an empty stack at 0000:FFFE.
func New(bus Bus) *CPU {
	c := &CPU{
		bus: bus,
	}
	c.Reset()
	return c
}

// Reset puts the registers back to their power-on values.
func (c *CPU) Reset() {
	c.Regs = Registers{
		CS:    0xF000,
		EIP:   0xFFF0,
		SS:    0x0000,
		ESP:   0xFFFE,
		Flags: resetFlags,
	}
	c.Cycles = Cycles{}
	c.halted = false
}

// SetTrapRunner attaches the callback table.
func (c *CPU) SetTrapRunner(t TrapRunner) {
	c.traps = t
}

// InterruptsEnabled reports whether maskable interrupts are accepted.
func (c *CPU) InterruptsEnabled() bool {
	return c.Regs.InterruptsEnabled()
}

// Halted reports whether the CPU is waiting for an interrupt.
func (c *CPU) Halted() bool {
	return c.halted
}

// Run executes instructions until the cycle budget of the batch is spent.
// A callback that abandons the batch stops the loop after the current
// instruction.
func (c *CPU) Run() {
	for c.Cycles.Cycles > 0 {
		c.Step()
	}
}

// Step executes a single instruction and charges one cycle.
func (c *CPU) Step() {
	c.Cycles.Cycles--

	if c.halted {
		// nothing to do until an interrupt arrives
		c.Cycles.Cycles = 0
		return
	}

	opcode := c.fetch8()

	switch opcode {
	case opNOP:
	case opJMPShort:
		rel := int8(c.fetch8())
		c.Regs.EIP = uint32(int64(c.Regs.EIP) + int64(rel))
	case opINT:
		n := c.fetch8()
		c.Interrupt(n)
	case opIRET:
		c.Regs.EIP = uint32(c.pop16())
		c.Regs.CS = c.pop16()
		c.Regs.Flags = c.pop16()
	case opRETF:
		c.Regs.EIP = uint32(c.pop16())
		c.Regs.CS = c.pop16()
	case opHLT:
		c.halted = true
	case opCLI:
		c.Regs.SetInterruptsEnabled(false)
	case opSTI:
		c.Regs.SetInterruptsEnabled(true)
	case opGRP4:
		c.grp4()
	default:
		slog.Debug("Unhandled opcode, skipping", "opcode", fmt.Sprintf("0x%02X", opcode), "at", c.Regs.ExecPoint())
	}
}

func (c *CPU) grp4() {
	if c.fetch8() != opCallback {
		return
	}

	number := c.fetch16()
	if c.traps == nil {
		slog.Warn("Callback escape without a callback table", "callback", number)
		return
	}

	if err := c.traps.Run(number); err != nil {
		slog.Warn("Callback failed", "callback", number, "error", err)
	}
}

// Interrupt pushes the return frame and transfers control to the handler
// of interrupt n found in the vector table. It wakes a halted CPU.
func (c *CPU) Interrupt(n uint8) {
	c.push16(c.Regs.Flags)
	c.push16(c.Regs.CS)
	c.push16(c.Regs.IP())

	c.Regs.SetInterruptsEnabled(false)

	vector := memory.VectorAddress(n)
	c.Regs.EIP = uint32(c.bus.ReadW(vector))
	c.Regs.CS = c.bus.ReadW(vector + 2)

	c.halted = false
}

// FarCall pushes the current CS:IP and jumps to segment:offset, the way a
// CALL FAR would. A halted CPU resumes at the call target.
func (c *CPU) FarCall(segment, offset uint16) {
	c.push16(c.Regs.CS)
	c.push16(c.Regs.IP())
	c.Regs.CS = segment
	c.Regs.EIP = uint32(offset)
	c.halted = false
}

func (c *CPU) fetch8() byte {
	v := c.bus.Read(memory.Physical(c.Regs.CS, c.Regs.IP()))
	c.Regs.EIP = uint32(c.Regs.IP() + 1)
	return v
}

func (c *CPU) fetch16() uint16 {
	v := c.bus.ReadW(memory.Physical(c.Regs.CS, c.Regs.IP()))
	c.Regs.EIP = uint32(c.Regs.IP() + 2)
	return v
}

func (c *CPU) push16(v uint16) {
	sp := c.Regs.SP() - 2
	c.Regs.ESP = uint32(sp)
	c.bus.WriteW(memory.Physical(c.Regs.SS, sp), v)
}

func (c *CPU) pop16() uint16 {
	sp := c.Regs.SP()
	v := c.bus.ReadW(memory.Physical(c.Regs.SS, sp))
	c.Regs.ESP = uint32(sp + 2)
	return v
}
