package debugger

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-dbg/dbg/cpu"
	"github.com/valerio/go-dbg/dbg/render"
	"github.com/valerio/go-dbg/dbg/shell"
)

// Runner starts a program on behalf of DBG and puts the caller's CS:EIP and
// SS:ESP back afterwards.
type Runner struct {
	ws      render.Windowing
	regs    *cpu.Registers
	shell   ProgramExecutor
	console shell.Console
	state   *State

	opts       render.WindowOptions
	background render.Color

	pair      render.Pair
	destroyed bool
}

// Run executes name with args. A missing program is reported on the console
// and isn't an error.
func (r *Runner) Run(name, args string) error {
	// TODO: active is never cleared, HeavyIsBreakpoint stays true for the
	// rest of the session once a program was run through DBG.
	r.state.setActive(true)

	snap := cpu.Capture(r.regs)
	defer snap.Restore(r.regs)

	if err := r.drawWindow(); err != nil {
		// the window only signals that the debugger is up
		slog.Warn("Runner window not shown", "error", err)
	}

	slog.Info("Running program under debugger", "name", name, "args", args, "at", snap.ExecPoint())
	if !r.shell.ExecuteProgram(name, args) {
		r.console.WriteOut(shell.Messagef(shell.MsgProgramExecutableMissing, name))
	}
	return nil
}

// Pair returns the runner window pair, the zero Pair if it doesn't exist.
func (r *Runner) Pair() render.Pair {
	return r.pair
}

func (r *Runner) drawWindow() error {
	if !r.pair.Valid() {
		if r.destroyed {
			return fmt.Errorf("runner window already destroyed: %w", render.ErrContextCreation)
		}
		pair, err := r.ws.CreatePair(r.opts)
		if err != nil {
			return fmt.Errorf("failed to create runner window: %w", err)
		}
		if !pair.Valid() {
			r.ws.DestroyPair(pair)
			return fmt.Errorf("runner window got %v: %w", pair, render.ErrContextCreation)
		}
		r.pair = pair
	}

	return render.DrawFrame(r.ws, r.pair, r.background)
}

func (r *Runner) destroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true

	if r.pair.Valid() {
		r.ws.DestroyPair(r.pair)
	}
	r.pair = render.Pair{}
}
