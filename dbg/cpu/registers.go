package cpu

import (
	"fmt"

	"github.com/valerio/go-dbg/dbg/bit"
)

const (
	// interruptFlag is the IF bit of FLAGS.
	interruptFlag uint16 = 9

	// resetFlags has only the always-one bit 1 set.
	resetFlags uint16 = 0x0002
)

// Registers holds the execution context of the CPU. Only the registers
// needed to place and resume execution are modelled.
type Registers struct {
	CS uint16
	SS uint16
	DS uint16
	ES uint16

	EIP uint32
	ESP uint32

	Flags uint16
}

// ExecPoint is the code segment and instruction pointer pair where emulated
// execution resumes.
type ExecPoint struct {
	CS  uint16
	EIP uint32
}

func (p ExecPoint) String() string {
	return fmt.Sprintf("%04X:%08X", p.CS, p.EIP)
}

// ExecPoint returns the current resumption point.
func (r *Registers) ExecPoint() ExecPoint {
	return ExecPoint{CS: r.CS, EIP: r.EIP}
}

// IP returns the low 16 bits of EIP.
func (r *Registers) IP() uint16 {
	return bit.LowWord(r.EIP)
}

// SP returns the low 16 bits of ESP.
func (r *Registers) SP() uint16 {
	return bit.LowWord(r.ESP)
}

// InterruptsEnabled reports whether the IF flag is set.
func (r *Registers) InterruptsEnabled() bool {
	return bit.IsSet16(interruptFlag, r.Flags)
}

// SetInterruptsEnabled sets or clears the IF flag.
func (r *Registers) SetInterruptsEnabled(enabled bool) {
	if enabled {
		r.Flags = bit.Set16(interruptFlag, r.Flags)
	} else {
		r.Flags = bit.Clear16(interruptFlag, r.Flags)
	}
}
