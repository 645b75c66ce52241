package callback

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/valerio/go-dbg/dbg/bit"
	"github.com/valerio/go-dbg/dbg/memory"
)

// Kind selects the return instruction emitted after the callback escape.
type Kind int

const (
	// KindRETF returns with a far return, for stubs reached by CALL FAR.
	KindRETF Kind = iota
	// KindIRET returns with an interrupt return, for stubs used as vectors.
	KindIRET
)

func (k Kind) String() string {
	switch k {
	case KindRETF:
		return "RETF"
	case KindIRET:
		return "IRET"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

const (
	// Segment holds the callback stubs in emulated memory.
	Segment uint16 = 0xF100

	// StubSize is the space reserved for each stub.
	StubSize = 16

	// MaxCallbacks is the number of callback slots.
	MaxCallbacks = 128
)

var (
	ErrTableFull     = errors.New("callback table is full")
	ErrNotAllocated  = errors.New("callback not allocated")
	ErrNoHandler     = errors.New("callback has no handler")
	ErrAlreadySetup  = errors.New("callback already set up")
	ErrUnknownKind   = errors.New("unknown callback kind")
	errNilTrapTarget = errors.New("nil trap handler")
)

// TrapHandler is notified when emulated code runs its callback stub.
type TrapHandler interface {
	OnTrapInvoked()
}

// TrapFunc adapts a plain function to a TrapHandler.
type TrapFunc func()

func (f TrapFunc) OnTrapInvoked() { f() }

// Writer is the memory the stubs are written to.
type Writer interface {
	Write(address uint32, value byte)
}

type entry struct {
	name    string
	kind    Kind
	handler TrapHandler
}

// Table allocates callback numbers and dispatches callback escapes
// executed by the CPU to their handlers.
type Table struct {
	mem     Writer
	entries []*entry
}

// NewTable returns an empty table writing stubs to mem.
func NewTable(mem Writer) *Table {
	return &Table{
		mem: mem,
	}
}

// Allocate reserves the next callback number.
func (t *Table) Allocate() (uint16, error) {
	if len(t.entries) >= MaxCallbacks {
		return 0, ErrTableFull
	}

	t.entries = append(t.entries, nil)
	return uint16(len(t.entries) - 1), nil
}

// Setup binds handler to callback n and writes its stub, the callback escape
// followed by the return instruction of the given kind.
func (t *Table) Setup(n uint16, handler TrapHandler, kind Kind, name string) error {
	if int(n) >= len(t.entries) {
		return fmt.Errorf("callback %d: %w", n, ErrNotAllocated)
	}
	if t.entries[n] != nil {
		return fmt.Errorf("callback %d (%s): %w", n, t.entries[n].name, ErrAlreadySetup)
	}
	if handler == nil {
		return fmt.Errorf("callback %d: %w", n, errNilTrapTarget)
	}

	var ret byte
	switch kind {
	case KindRETF:
		ret = 0xCB
	case KindIRET:
		ret = 0xCF
	default:
		return fmt.Errorf("callback %d: %w: %v", n, ErrUnknownKind, kind)
	}

	t.entries[n] = &entry{name: name, kind: kind, handler: handler}

	seg, off := t.Address(n)
	base := memory.Physical(seg, off)
	stub := []byte{0xFE, 0x38, bit.Low(n), bit.High(n), ret}
	for i, b := range stub {
		t.mem.Write(base+uint32(i), b)
	}

	slog.Debug("Callback set up", "callback", n, "name", name, "kind", kind, "segment", seg, "offset", off)
	return nil
}

// Run invokes the handler of callback n. It is called by the CPU when it
// executes the callback escape.
func (t *Table) Run(n uint16) error {
	if int(n) >= len(t.entries) {
		return fmt.Errorf("callback %d: %w", n, ErrNotAllocated)
	}
	e := t.entries[n]
	if e == nil {
		return fmt.Errorf("callback %d: %w", n, ErrNoHandler)
	}

	e.handler.OnTrapInvoked()
	return nil
}

// Address returns where the stub of callback n lives.
func (t *Table) Address(n uint16) (segment, offset uint16) {
	return Segment, n * StubSize
}

// Name returns the name given to callback n in Setup.
func (t *Table) Name(n uint16) string {
	if int(n) >= len(t.entries) || t.entries[n] == nil {
		return ""
	}
	return t.entries[n].name
}
