// Package debugger implements the emulator's debug mode: the DBG program,
// the gate that switches the emulator into the debug loop, and the loop
// itself, which hands control back once a hardware interrupt moves CS:EIP.
package debugger

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-dbg/dbg/callback"
	"github.com/valerio/go-dbg/dbg/cpu"
	"github.com/valerio/go-dbg/dbg/display"
	"github.com/valerio/go-dbg/dbg/render"
	"github.com/valerio/go-dbg/dbg/shell"
	"github.com/valerio/go-dbg/dbg/timing"
)

// ProgramName is the file name DBG is registered under.
const ProgramName = "DBG.COM"

// CallbackName is the name of the debugger callback.
const CallbackName = "debugger"

// Config holds the debugger window settings.
type Config struct {
	Overlay          render.WindowOptions
	Scheme           display.ColorScheme
	RunnerWindow     render.WindowOptions
	RunnerBackground render.Color
}

// DefaultConfig returns the stock window settings.
func DefaultConfig() Config {
	return Config{
		Overlay: render.WindowOptions{
			Title:     display.OverlayTitle,
			Width:     display.OverlayWidth,
			Height:    display.OverlayHeight,
			Resizable: true,
		},
		Scheme: display.DefaultColorScheme,
		RunnerWindow: render.WindowOptions{
			Title:     display.RunnerTitle,
			Width:     display.RunnerWidth,
			Height:    display.RunnerHeight,
			Resizable: true,
		},
		RunnerBackground: display.RunnerBackground,
	}
}

// Deps are the emulator parts the debugger works with.
type Deps struct {
	Windowing render.Windowing
	Registers *cpu.Registers
	Cycles    *cpu.Cycles
	IRQs      InterruptRunner
	Loops     LoopInstaller
	Keyboard  KeyboardBuffer
	Shell     ProgramExecutor
	Console   shell.Console
	Memory    RealWriter
	Delay     timing.Delayer
}

// Debugger ties the debug mode components together.
type Debugger struct {
	state    State
	overlay  *Overlay
	runner   *Runner
	detector *Detector
	gate     *Gate
	command  *Command

	callback    uint16
	initialized bool
	shutdown    bool
}

func New(cfg Config, deps Deps) *Debugger {
	if deps.Delay == nil {
		deps.Delay = timing.SleepDelayer{}
	}

	d := &Debugger{}
	d.overlay = NewOverlay(deps.Windowing, cfg.Overlay, cfg.Scheme)
	d.runner = &Runner{
		ws:         deps.Windowing,
		regs:       deps.Registers,
		shell:      deps.Shell,
		console:    deps.Console,
		state:      &d.state,
		opts:       cfg.RunnerWindow,
		background: cfg.RunnerBackground,
	}
	d.detector = &Detector{
		events:    deps.Windowing,
		regs:      deps.Registers,
		irqs:      deps.IRQs,
		delay:     deps.Delay,
		loops:     deps.Loops,
		state:     &d.state,
		checkKeys: d.CheckKeys,
	}
	d.gate = &Gate{
		ws:        deps.Windowing,
		overlay:   d.overlay,
		state:     &d.state,
		loops:     deps.Loops,
		keyboard:  deps.Keyboard,
		cycles:    deps.Cycles,
		debugLoop: d.detector.Poll,
	}
	d.command = &Command{
		mem:    deps.Memory,
		runner: d.runner,
	}
	return d
}

// Init registers DBG.COM and the debugger callback.
func (d *Debugger) Init(programs *shell.Registry, callbacks *callback.Table) error {
	if d.initialized {
		return nil
	}

	if err := programs.Register(ProgramName, d.command); err != nil {
		return fmt.Errorf("failed to register %s: %w", ProgramName, err)
	}

	n, err := callbacks.Allocate()
	if err != nil {
		return fmt.Errorf("failed to allocate debugger callback: %w", err)
	}
	if err := callbacks.Setup(n, d.gate, callback.KindRETF, CallbackName); err != nil {
		return fmt.Errorf("failed to set up debugger callback: %w", err)
	}

	d.callback = n
	d.initialized = true
	slog.Debug("Debugger initialized", "callback", n, "program", ProgramName)
	return nil
}

// Callback returns the number of the debugger callback.
func (d *Debugger) Callback() uint16 {
	return d.callback
}

// Enable is bound to the debugger hotkey.
func (d *Debugger) Enable(pressed bool) error {
	return d.gate.Enable(pressed)
}

// Loop returns the debug loop function.
func (d *Debugger) Loop() uint32 {
	return d.detector.Poll()
}

// Run executes a program the way DBG does.
func (d *Debugger) Run(name, args string) error {
	return d.runner.Run(name, args)
}

// State returns a copy of the activation flags.
func (d *Debugger) State() State {
	return d.state
}

// Overlay returns the overlay window owner.
func (d *Debugger) Overlay() *Overlay {
	return d.overlay
}

// RunnerPair returns the window DBG draws on when it starts a program.
func (d *Debugger) RunnerPair() render.Pair {
	return d.runner.Pair()
}

// HeavyIsBreakpoint is checked before every instruction when heavy
// debugging is on.
func (d *Debugger) HeavyIsBreakpoint() bool {
	return d.state.Active()
}

// CheckKeys handles debugger key input while in the debug loop. There are
// no debugger commands yet, so it always asks to keep polling.
func (d *Debugger) CheckKeys() uint32 {
	return 0
}

// Shutdown destroys the debugger's windows. It is safe to call more than once.
func (d *Debugger) Shutdown() {
	if d.shutdown {
		return
	}
	d.shutdown = true

	d.overlay.Destroy()
	d.runner.destroy()
	slog.Debug("Debugger shut down")
}
