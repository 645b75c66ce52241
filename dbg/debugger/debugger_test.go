package debugger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-dbg/dbg/callback"
	"github.com/valerio/go-dbg/dbg/cpu"
	"github.com/valerio/go-dbg/dbg/display"
	"github.com/valerio/go-dbg/dbg/input"
	"github.com/valerio/go-dbg/dbg/loop"
	"github.com/valerio/go-dbg/dbg/memory"
	"github.com/valerio/go-dbg/dbg/render"
	"github.com/valerio/go-dbg/dbg/shell"
	"github.com/valerio/go-dbg/dbg/timing"
)

type fixture struct {
	dbg      *Debugger
	ws       *mockWindowing
	regs     *cpu.Registers
	cycles   *cpu.Cycles
	irqs     *mockIRQs
	loops    *loop.Scheduler
	keyboard *input.Keyboard
	sh       *mockShell
	console  *shell.BufferConsole
	mem      *mockMemory
	delay    *timing.CountingDelayer

	normalTicks int
}

func newFixture() *fixture {
	f := &fixture{
		ws:       newMockWindowing(),
		regs:     &cpu.Registers{CS: 0x0070, EIP: 0x100, SS: 0x0050, ESP: 0xFFFE, DS: 0x0070},
		cycles:   &cpu.Cycles{Cycles: 100, CycleLeft: 50},
		irqs:     &mockIRQs{},
		keyboard: input.NewKeyboard(),
		console:  &shell.BufferConsole{},
		mem:      &mockMemory{},
		delay:    &timing.CountingDelayer{},
	}
	f.sh = &mockShell{regs: f.regs, known: map[string]bool{"GAME.EXE": true}}
	f.loops = loop.New(func() uint32 {
		f.normalTicks++
		return 0
	})
	f.dbg = New(DefaultConfig(), Deps{
		Windowing: f.ws,
		Registers: f.regs,
		Cycles:    f.cycles,
		IRQs:      f.irqs,
		Loops:     f.loops,
		Keyboard:  f.keyboard,
		Shell:     f.sh,
		Console:   f.console,
		Memory:    f.mem,
		Delay:     f.delay,
	})
	return f
}

func TestDiverged(t *testing.T) {
	tests := []struct {
		name     string
		before   cpu.ExecPoint
		after    cpu.ExecPoint
		expected bool
	}{
		{"same point", cpu.ExecPoint{CS: 0x70, EIP: 0x100}, cpu.ExecPoint{CS: 0x70, EIP: 0x100}, false},
		{"eip changed", cpu.ExecPoint{CS: 0x70, EIP: 0x100}, cpu.ExecPoint{CS: 0x70, EIP: 0x200}, true},
		{"cs changed", cpu.ExecPoint{CS: 0x70, EIP: 0x100}, cpu.ExecPoint{CS: 0xF000, EIP: 0x100}, true},
		{"both changed", cpu.ExecPoint{CS: 0x70, EIP: 0x100}, cpu.ExecPoint{CS: 0xF000, EIP: 0xFEA5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Diverged(tt.before, tt.after))
		})
	}
}

// Activation while idle installs the debug loop.
func TestEnable_FromIdle(t *testing.T) {
	f := newFixture()
	f.keyboard.Push(0x1E)
	f.keyboard.Push(0x30)

	require.NoError(t, f.dbg.Enable(true))

	assert.Equal(t, loop.Debug, f.loops.Mode())
	assert.True(t, f.dbg.State().Debugging())
	assert.Equal(t, 0, f.keyboard.Len())

	overlay := f.dbg.Overlay().Pair()
	require.True(t, overlay.Valid())
	assert.Equal(t, 1, f.ws.focusLosses)
	assert.Equal(t, []render.Pair{overlay}, f.ws.raised)
	assert.Equal(t, []render.Pair{overlay}, f.ws.presented)
	assert.Equal(t, []render.Color{display.DefaultColorScheme.Background}, f.ws.cleared)

	// the primary pair is current again
	assert.Equal(t, render.Pair{Surface: 1, Context: 1}, f.ws.current)

	require.Len(t, f.ws.created, 1)
	assert.Equal(t, "Debug", f.ws.created[0].Title)
	assert.True(t, f.ws.created[0].Resizable)
}

func TestEnable_Release(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.dbg.Enable(false))

	assert.Equal(t, loop.Normal, f.loops.Mode())
	assert.False(t, f.dbg.State().Debugging())
	assert.Empty(t, f.ws.created)
	assert.Zero(t, f.ws.focusLosses)
}

func TestEnable_WhileDebugging(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.dbg.Enable(true))
	require.NoError(t, f.dbg.Enable(true))

	assert.Equal(t, loop.Debug, f.loops.Mode())
	assert.Len(t, f.ws.created, 1)
	assert.Len(t, f.ws.presented, 1)
	assert.Equal(t, 1, f.ws.focusLosses)
}

func TestEnable_OverlayCreationFails(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*mockWindowing)
	}{
		{"create error", func(m *mockWindowing) { m.failCreate = true }},
		{"null context", func(m *mockWindowing) { m.nullContext = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f.ws)

			err := f.dbg.Enable(true)
			assert.ErrorIs(t, err, render.ErrContextCreation)
			assert.Equal(t, loop.Normal, f.loops.Mode())
			assert.False(t, f.dbg.State().Debugging())
			assert.Zero(t, f.ws.focusLosses)
			assert.Equal(t, render.Pair{Surface: 1, Context: 1}, f.ws.current)
		})
	}
}

func TestOnTrapInvoked(t *testing.T) {
	f := newFixture()

	f.dbg.gate.OnTrapInvoked()

	assert.True(t, f.dbg.State().ExitLoop())
	assert.True(t, f.dbg.State().Debugging())
	assert.Equal(t, loop.Debug, f.loops.Mode())
	assert.Equal(t, int32(0), f.cycles.Cycles)
	assert.Equal(t, int32(0), f.cycles.CycleLeft)
}

func TestOnTrapInvoked_CreationFailureStillAbandonsCycles(t *testing.T) {
	f := newFixture()
	f.ws.failCreate = true

	f.dbg.gate.OnTrapInvoked()

	assert.True(t, f.dbg.State().ExitLoop())
	assert.False(t, f.dbg.State().Debugging())
	assert.Equal(t, loop.Normal, f.loops.Mode())
	assert.Equal(t, int32(0), f.cycles.Cycles)
}

// A debug tick without an interrupt keeps polling.
func TestLoop_NoInterrupt(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.dbg.Enable(true))

	for i := 0; i < 5; i++ {
		assert.Equal(t, uint32(0), f.loops.Tick())
	}

	assert.Equal(t, loop.Debug, f.loops.Mode())
	assert.True(t, f.dbg.State().Debugging())
	assert.Equal(t, 5, f.irqs.calls)
	assert.Equal(t, 5, f.ws.polls)
	assert.Equal(t, 5, f.delay.Calls)
	assert.Equal(t, 0, f.normalTicks)
}

// An interrupt that moves EIP from 0x100 to 0x200 ends debug mode.
func TestLoop_InterruptDivergence(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.dbg.Enable(true))

	f.irqs.onRun = func() { f.regs.EIP = 0x200 }

	assert.Equal(t, uint32(0), f.loops.Tick())
	assert.Equal(t, loop.Normal, f.loops.Mode())
	assert.False(t, f.dbg.State().Debugging())

	f.irqs.onRun = nil
	f.loops.Tick()
	assert.Equal(t, 1, f.normalTicks)
	assert.Equal(t, 1, f.irqs.calls)

	// debug mode can be entered again
	require.NoError(t, f.dbg.Enable(true))
	assert.Equal(t, loop.Debug, f.loops.Mode())
	assert.Len(t, f.ws.created, 1)
}

func TestLoop_ExactlyOneLoopPerTick(t *testing.T) {
	f := newFixture()
	debugTicks := 0
	f.irqs.onRun = func() { debugTicks++ }

	ops := []func(){
		func() { f.loops.Tick() },
		func() { require.NoError(t, f.dbg.Enable(true)) },
		func() { f.loops.Tick() },
		func() { f.loops.Tick() },
		func() {
			f.irqs.onRun = func() {
				debugTicks++
				f.regs.CS = 0xF000
			}
			f.loops.Tick()
		},
		func() { f.loops.Tick() },
	}
	for _, op := range ops {
		op()
	}

	assert.Equal(t, 2, f.normalTicks)
	assert.Equal(t, 3, debugTicks)
	assert.Equal(t, uint64(5), f.loops.Ticks())
}

// A missing program is reported and the registers come back unchanged.
func TestRun_MissingProgram(t *testing.T) {
	f := newFixture()
	before := *f.regs

	require.NoError(t, f.dbg.Run("MISSING.COM", ""))

	assert.Equal(t, "Illegal command: MISSING.COM.\n", f.console.String())
	assert.Equal(t, before.CS, f.regs.CS)
	assert.Equal(t, before.EIP, f.regs.EIP)
	assert.Equal(t, before.SS, f.regs.SS)
	assert.Equal(t, before.ESP, f.regs.ESP)
}

func TestRun_RestoresOnlyTheSnapshot(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.dbg.Run("GAME.EXE", "-fast"))

	assert.Empty(t, f.console.String())
	assert.Equal(t, []string{"GAME.EXE"}, f.sh.executed)
	assert.Equal(t, []string{"-fast"}, f.sh.args)
	assert.Equal(t, cpu.ExecPoint{CS: 0x0070, EIP: 0x100}, f.regs.ExecPoint())
	assert.Equal(t, uint16(0x0050), f.regs.SS)
	assert.Equal(t, uint32(0xFFFE), f.regs.ESP)
	// registers outside the snapshot keep what the program left
	assert.Equal(t, uint16(0x4000), f.regs.DS)
}

func TestRun_DrawsRunnerWindow(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.dbg.Run("GAME.EXE", ""))

	runner := f.dbg.RunnerPair()
	require.True(t, runner.Valid())
	assert.Equal(t, []render.Pair{runner}, f.ws.presented)
	assert.Equal(t, []render.Color{{R: 0, G: 1, B: 0, A: 1}}, f.ws.cleared)
	assert.Equal(t, render.Pair{Surface: 1, Context: 1}, f.ws.current)
	assert.Empty(t, f.ws.raised)
	assert.Equal(t, loop.Normal, f.loops.Mode())

	require.Len(t, f.ws.created, 1)
	assert.Equal(t, int32(1024), f.ws.created[0].Width)
	assert.Equal(t, int32(768), f.ws.created[0].Height)

	// the window is reused
	require.NoError(t, f.dbg.Run("GAME.EXE", ""))
	assert.Len(t, f.ws.created, 1)
}

func TestRun_WindowFailureStillRunsProgram(t *testing.T) {
	f := newFixture()
	f.ws.failCreate = true

	require.NoError(t, f.dbg.Run("GAME.EXE", ""))
	assert.Equal(t, []string{"GAME.EXE"}, f.sh.executed)
	assert.Equal(t, cpu.ExecPoint{CS: 0x0070, EIP: 0x100}, f.regs.ExecPoint())
}

// active is set by the first run and nothing clears it.
func TestActiveNeverResets(t *testing.T) {
	f := newFixture()
	assert.False(t, f.dbg.HeavyIsBreakpoint())

	require.NoError(t, f.dbg.Run("MISSING.COM", ""))
	assert.True(t, f.dbg.HeavyIsBreakpoint())

	require.NoError(t, f.dbg.Enable(true))
	f.irqs.onRun = func() { f.regs.EIP++ }
	f.loops.Tick()
	require.Equal(t, loop.Normal, f.loops.Mode())

	f.dbg.Shutdown()
	assert.True(t, f.dbg.State().Active())
}

func TestCheckKeys(t *testing.T) {
	assert.Equal(t, uint32(0), newFixture().dbg.CheckKeys())
}

func TestShutdown(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.dbg.Enable(true))
	require.NoError(t, f.dbg.Run("GAME.EXE", ""))
	overlay := f.dbg.Overlay().Pair()
	runner := f.dbg.RunnerPair()

	f.dbg.Shutdown()
	f.dbg.Shutdown()

	assert.ElementsMatch(t, []render.Pair{overlay, runner}, f.ws.destroyed)
	assert.False(t, f.dbg.Overlay().Created())
}

func TestShutdown_NothingCreated(t *testing.T) {
	f := newFixture()
	f.dbg.Shutdown()
	assert.Empty(t, f.ws.destroyed)
}

func TestInit(t *testing.T) {
	f := newFixture()
	mem := memory.New()
	table := callback.NewTable(mem)
	programs := shell.NewRegistry()

	require.NoError(t, f.dbg.Init(programs, table))
	require.NoError(t, f.dbg.Init(programs, table))

	_, err := programs.Lookup("DBG")
	assert.NoError(t, err)
	assert.Equal(t, "debugger", table.Name(f.dbg.Callback()))

	// running the callback enters debug mode
	require.NoError(t, table.Run(f.dbg.Callback()))
	assert.Equal(t, loop.Debug, f.loops.Mode())
	assert.True(t, f.dbg.State().ExitLoop())
}

func TestInit_DuplicateProgram(t *testing.T) {
	f := newFixture()
	programs := shell.NewRegistry()
	require.NoError(t, programs.Register("DBG.COM", shell.ProgramFunc(func(*shell.CommandLine, shell.Console) error {
		return nil
	})))

	err := f.dbg.Init(programs, callback.NewTable(memory.New()))
	assert.ErrorIs(t, err, shell.ErrDuplicateProgram)
}
