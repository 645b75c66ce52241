package debugger

import "github.com/valerio/go-dbg/dbg/loop"

// InterruptRunner services pending hardware interrupts.
type InterruptRunner interface {
	RunIRQs()
}

// ProgramExecutor starts a program by name, reporting false when it doesn't
// exist.
type ProgramExecutor interface {
	ExecuteProgram(name, args string) bool
}

// KeyboardBuffer is the emulated keyboard's type-ahead buffer.
type KeyboardBuffer interface {
	Clear()
}

// LoopInstaller swaps the per-tick function of the emulator.
type LoopInstaller interface {
	Install(fn loop.Func)
	UninstallToNormal()
}

// RealWriter writes a dword at a real-mode segment:offset address.
type RealWriter interface {
	RealWriteD(segment, offset uint16, value uint32)
}
