package debugger

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-dbg/dbg/cpu"
	"github.com/valerio/go-dbg/dbg/loop"
	"github.com/valerio/go-dbg/dbg/render"
)

// Gate switches the emulator into debug mode, either on a key press or when
// emulated code calls the debugger callback.
type Gate struct {
	ws       render.Windowing
	overlay  *Overlay
	state    *State
	loops    LoopInstaller
	keyboard KeyboardBuffer
	cycles   *cpu.Cycles

	debugLoop loop.Func
}

// Enable activates debug mode. A release (pressed=false) is ignored, as is
// a press while already debugging.
func (g *Gate) Enable(pressed bool) error {
	if !pressed {
		return nil
	}
	if g.state.Debugging() {
		slog.Debug("Debug mode already active")
		return nil
	}

	// create the overlay before touching focus so a failure leaves the
	// primary window as it was
	if err := g.overlay.ensure(); err != nil {
		slog.Warn("Debug mode not activated", "error", err)
		return fmt.Errorf("failed to activate debugger: %w", err)
	}

	g.ws.LosingFocus()
	if err := g.overlay.Raise(); err != nil {
		return fmt.Errorf("failed to raise overlay: %w", err)
	}
	if err := g.overlay.Draw(); err != nil {
		slog.Warn("Overlay frame not drawn", "error", err)
	}

	g.state.setDebugging(true)
	g.loops.Install(g.debugLoop)
	g.keyboard.Clear()

	slog.Info("Debug mode activated")
	return nil
}

// OnTrapInvoked is run by the debugger callback. It enters debug mode and
// abandons the CPU's current batch so the new loop runs right away.
func (g *Gate) OnTrapInvoked() {
	g.state.setExitLoop(true)

	if err := g.Enable(true); err != nil {
		slog.Warn("Debugger callback could not activate debug mode", "error", err)
	}

	g.cycles.Abandon()
}
