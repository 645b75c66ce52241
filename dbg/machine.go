// Package dbg wires the emulated machine together: CPU, memory, interrupt
// controller, timer, shell, input and the debugger, driven one tick at a
// time by a loop scheduler.
package dbg

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-dbg/dbg/backend"
	"github.com/valerio/go-dbg/dbg/callback"
	"github.com/valerio/go-dbg/dbg/cpu"
	"github.com/valerio/go-dbg/dbg/debugger"
	"github.com/valerio/go-dbg/dbg/events"
	"github.com/valerio/go-dbg/dbg/input"
	"github.com/valerio/go-dbg/dbg/input/action"
	"github.com/valerio/go-dbg/dbg/input/event"
	"github.com/valerio/go-dbg/dbg/loop"
	"github.com/valerio/go-dbg/dbg/memory"
	"github.com/valerio/go-dbg/dbg/pic"
	"github.com/valerio/go-dbg/dbg/shell"
	"github.com/valerio/go-dbg/dbg/timing"
)

// BIOS layout in segment F000.
const (
	biosSegment     = 0xF000
	biosIdleOffset  = 0x0000
	biosIRQHandler  = 0x0100
	biosDummyVector = 0x0110
)

var (
	// STI; HLT; JMP short back to STI
	biosIdleLoop = []byte{0xFB, 0xF4, 0xEB, 0xFC}
	// hardware IRQ handlers just return
	biosIRET = []byte{0xCF}
)

// Machine is the emulated PC with the debugger attached.
type Machine struct {
	config Config

	mem       *memory.Memory
	cpu       *cpu.CPU
	pic       *pic.Controller
	scheduler *events.Scheduler
	timer     *events.Timer
	loops     *loop.Scheduler
	callbacks *callback.Table
	programs  *shell.Registry
	shell     *shell.Shell
	keyboard  *input.Keyboard
	inputs    *input.Manager
	backend   backend.Backend
	debugger  *debugger.Debugger
	limiter   timing.Limiter

	running bool
	paused  bool
}

// New builds a machine on top of b and initializes b.
func New(config Config, b backend.Backend) (*Machine, error) {
	m := &Machine{
		config:  config,
		backend: b,
	}

	m.mem = memory.New()
	m.cpu = cpu.New(m.mem)
	m.pic = pic.New(m.cpu)
	m.scheduler = events.NewScheduler()
	m.timer = events.NewTimer(m.scheduler, m.pic, config.TimerInterval)
	m.loops = loop.New(m.normalLoop)
	m.callbacks = callback.NewTable(m.mem)
	m.cpu.SetTrapRunner(m.callbacks)
	m.programs = shell.NewRegistry()
	m.shell = shell.New(m.programs, b)
	m.keyboard = input.NewKeyboard()
	m.inputs = input.NewManager(m.keyboard)
	m.limiter = timing.New(config.Limiter)

	var delay timing.Delayer = timing.SleepDelayer{}
	if config.Limiter == "none" {
		delay = &timing.CountingDelayer{}
	}

	m.debugger = debugger.New(config.Debugger, debugger.Deps{
		Windowing: b,
		Registers: &m.cpu.Regs,
		Cycles:    &m.cpu.Cycles,
		IRQs:      m.pic,
		Loops:     m.loops,
		Keyboard:  m.keyboard,
		Shell:     m.shell,
		Console:   b,
		Memory:    m.mem,
		Delay:     delay,
	})

	m.setupInput()

	err := b.Init(backend.BackendConfig{
		Title:        config.Title,
		Width:        config.Width,
		Height:       config.Height,
		LogLevel:     config.LogLevel,
		InputManager: m.inputs,
		Callbacks: backend.BackendCallbacks{
			OnQuit: m.Stop,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize backend: %w", err)
	}

	if err := m.debugger.Init(m.programs, m.callbacks); err != nil {
		_ = b.Cleanup()
		return nil, err
	}

	m.boot()
	m.scheduler.Start()
	m.timer.Start()
	m.running = true

	slog.Info("Machine ready", "backend", config.Backend, "cycles_per_tick", config.CyclesPerTick, "timer_interval", config.TimerInterval)
	return m, nil
}

func (m *Machine) setupInput() {
	m.inputs.On(action.DebuggerEnable, event.Press, func() {
		if err := m.debugger.Enable(true); err != nil {
			slog.Warn("Debugger hotkey failed", "error", err)
		}
	})
	m.inputs.On(action.EmulatorQuit, event.Press, m.Stop)
	m.inputs.On(action.EmulatorPauseToggle, event.Press, func() {
		m.paused = !m.paused
		slog.Info("Emulation pause toggled", "paused", m.paused)
	})
}

// boot installs the BIOS stubs and points the CPU at the idle loop.
func (m *Machine) boot() {
	m.mem.Load(memory.Physical(biosSegment, biosIdleOffset), biosIdleLoop)
	m.mem.Load(memory.Physical(biosSegment, biosIRQHandler), biosIRET)
	m.mem.Load(memory.Physical(biosSegment, biosDummyVector), biosIRET)

	for n := 0; n < 0x100; n++ {
		m.mem.SetVector(uint8(n), biosSegment, biosDummyVector)
	}
	for irq := uint8(0); irq < pic.Lines; irq++ {
		m.mem.SetVector(pic.DefaultVectorBase+irq, biosSegment, biosIRQHandler)
	}

	m.cpu.Reset()
	m.cpu.Regs.CS = biosSegment
	m.cpu.Regs.EIP = biosIdleOffset
}

// normalLoop is the baseline per-tick function: host events, pending
// interrupts, then one batch of instructions.
func (m *Machine) normalLoop() uint32 {
	m.backend.PollEvents()
	m.pic.RunIRQs()

	m.cpu.Cycles.Cycles = m.config.CyclesPerTick
	m.cpu.Cycles.CycleLeft = 0
	m.cpu.Run()
	return 0
}

// Run drives ticks until the machine stops, a loop asks to exit, or ticks
// have elapsed. Zero ticks means no limit.
func (m *Machine) Run(ticks int) {
	for i := 0; m.running && (ticks == 0 || i < ticks); i++ {
		if m.paused {
			m.backend.PollEvents()
			m.limiter.WaitForNextTick()
			continue
		}

		m.scheduler.Advance()
		if ret := m.loops.Tick(); ret != 0 {
			slog.Info("Loop requested exit", "code", ret)
			m.running = false
			break
		}
		m.limiter.WaitForNextTick()
	}
}

// Execute runs a shell command line, "DBG GAME.EXE" for example.
func (m *Machine) Execute(line string) error {
	return m.shell.Execute(line)
}

// Break makes the CPU call the debugger callback, the way a breakpoint
// instruction in emulated code would.
func (m *Machine) Break() {
	seg, off := m.callbacks.Address(m.debugger.Callback())
	m.cpu.FarCall(seg, off)
	slog.Info("Calling debugger callback", "segment", seg, "offset", off)
}

// Stop ends Run after the current tick.
func (m *Machine) Stop() {
	m.running = false
}

// Running reports whether Run would do anything.
func (m *Machine) Running() bool {
	return m.running
}

// Shutdown releases the debugger windows and the backend.
func (m *Machine) Shutdown() error {
	m.running = false
	m.debugger.Shutdown()
	m.scheduler.Stop()
	if t, ok := m.limiter.(*timing.TickerLimiter); ok {
		t.Stop()
	}
	return m.backend.Cleanup()
}

func (m *Machine) CPU() *cpu.CPU                { return m.cpu }
func (m *Machine) Memory() *memory.Memory       { return m.mem }
func (m *Machine) PIC() *pic.Controller         { return m.pic }
func (m *Machine) Timer() *events.Timer         { return m.timer }
func (m *Machine) Loops() *loop.Scheduler       { return m.loops }
func (m *Machine) Debugger() *debugger.Debugger { return m.debugger }
func (m *Machine) Keyboard() *input.Keyboard    { return m.keyboard }
func (m *Machine) Programs() *shell.Registry    { return m.programs }
