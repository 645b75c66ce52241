package debugger

import (
	"github.com/valerio/go-dbg/dbg/cpu"
	"github.com/valerio/go-dbg/dbg/render"
)

// mockWindowing hands out sequential handles and records what was drawn.
type mockWindowing struct {
	current render.Pair
	next    uint64

	failCreate  bool
	nullContext bool

	created     []render.WindowOptions
	destroyed   []render.Pair
	raised      []render.Pair
	presented   []render.Pair
	cleared     []render.Color
	polls       int
	focusLosses int
}

func newMockWindowing() *mockWindowing {
	// handle 1 is the primary window
	return &mockWindowing{
		current: render.Pair{Surface: 1, Context: 1},
		next:    2,
	}
}

func (m *mockWindowing) PollEvents()              { m.polls++ }
func (m *mockWindowing) CurrentPair() render.Pair { return m.current }

func (m *mockWindowing) MakeCurrent(p render.Pair) error {
	m.current = p
	return nil
}

func (m *mockWindowing) CreatePair(opts render.WindowOptions) (render.Pair, error) {
	if m.failCreate {
		return render.Pair{}, render.ErrContextCreation
	}
	m.created = append(m.created, opts)
	p := render.Pair{Surface: render.SurfaceHandle(m.next), Context: render.ContextHandle(m.next)}
	if m.nullContext {
		p.Context = 0
	}
	m.next++
	return p, nil
}

func (m *mockWindowing) DestroyPair(p render.Pair) { m.destroyed = append(m.destroyed, p) }
func (m *mockWindowing) Clear(c render.Color)      { m.cleared = append(m.cleared, c) }
func (m *mockWindowing) Present(p render.Pair)     { m.presented = append(m.presented, p) }
func (m *mockWindowing) Raise(p render.Pair)       { m.raised = append(m.raised, p) }
func (m *mockWindowing) LosingFocus()              { m.focusLosses++ }

// mockIRQs runs onRun when interrupts are serviced.
type mockIRQs struct {
	calls int
	onRun func()
}

func (m *mockIRQs) RunIRQs() {
	m.calls++
	if m.onRun != nil {
		m.onRun()
	}
}

// mockShell mutates the registers the way a real program would.
type mockShell struct {
	regs     *cpu.Registers
	known    map[string]bool
	executed []string
	args     []string
}

func (m *mockShell) ExecuteProgram(name, args string) bool {
	m.executed = append(m.executed, name)
	m.args = append(m.args, args)
	if m.regs != nil {
		m.regs.CS = 0x2000
		m.regs.EIP = 0x1234
		m.regs.SS = 0x3000
		m.regs.ESP = 0x0100
		m.regs.DS = 0x4000
	}
	return m.known[name]
}

type mockMemory struct {
	writes map[uint32]uint32
}

func (m *mockMemory) RealWriteD(segment, offset uint16, value uint32) {
	if m.writes == nil {
		m.writes = make(map[uint32]uint32)
	}
	m.writes[uint32(segment)<<4+uint32(offset)] = value
}
