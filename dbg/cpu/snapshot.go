package cpu

// Snapshot is a saved execution context: both the code and the stack
// segment:offset pairs.
type Snapshot struct {
	CS  uint16
	EIP uint32
	SS  uint16
	ESP uint32
}

// Capture reads the execution context from regs.
func Capture(regs *Registers) Snapshot {
	return Snapshot{
		CS:  regs.CS,
		EIP: regs.EIP,
		SS:  regs.SS,
		ESP: regs.ESP,
	}
}

// Restore writes the snapshot back into regs verbatim, regardless of what
// happened since it was captured. Each pair is restored segment first, then
// offset, stack before code. No validation is done: restoring a stale or
// foreign snapshot is the caller's problem.
//
// Capture and Restore must not interleave with another Capture/Restore pair
// on the same registers.
func (s Snapshot) Restore(regs *Registers) {
	regs.SS = s.SS
	regs.ESP = s.ESP

	regs.CS = s.CS
	regs.EIP = s.EIP
}

// ExecPoint returns the code pair of the snapshot.
func (s Snapshot) ExecPoint() ExecPoint {
	return ExecPoint{CS: s.CS, EIP: s.EIP}
}
