package terminal

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-dbg/dbg/backend"
	"github.com/valerio/go-dbg/dbg/input"
	"github.com/valerio/go-dbg/dbg/input/action"
	"github.com/valerio/go-dbg/dbg/input/event"
	dbgrender "github.com/valerio/go-dbg/dbg/render"
)

func newSimBackend(t *testing.T, config backend.BackendConfig) (*Backend, tcell.SimulationScreen) {
	t.Helper()

	defaultLogger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(defaultLogger) })

	screen := tcell.NewSimulationScreen("")
	b := NewWithScreen(screen)
	require.NoError(t, b.Init(config))
	screen.SetSize(100, 30)
	t.Cleanup(func() { _ = b.Cleanup() })
	return b, screen
}

func cellAt(screen tcell.SimulationScreen, x, y int) tcell.SimCell {
	cells, width, _ := screen.GetContents()
	return cells[y*width+x]
}

func rowText(screen tcell.SimulationScreen, y int) string {
	cells, width, _ := screen.GetContents()
	var sb strings.Builder
	for x := 0; x < width; x++ {
		runes := cells[y*width+x].Runes
		if len(runes) == 0 {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(runes[0])
	}
	return sb.String()
}

func TestTerminal_PrimaryIsCurrent(t *testing.T) {
	b, _ := newSimBackend(t, backend.BackendConfig{Title: "go-dbg"})

	assert.True(t, b.CurrentPair().Valid())
	assert.Equal(t, b.primary, b.CurrentPair())
}

func TestTerminal_ConsoleOutput(t *testing.T) {
	b, screen := newSimBackend(t, backend.BackendConfig{Title: "go-dbg"})

	b.WriteOut("Illegal command: ")
	b.WriteOut("GAME.EXE.\nnext")
	_, err := b.Update()
	require.NoError(t, err)

	assert.Contains(t, rowText(screen, 1), "Illegal command: GAME.EXE.")
	assert.Contains(t, rowText(screen, 2), "next")
	assert.Contains(t, rowText(screen, 0), "go-dbg")
}

func TestTerminal_PresentFillsPanel(t *testing.T) {
	b, screen := newSimBackend(t, backend.BackendConfig{Title: "go-dbg"})

	overlay, err := b.CreatePair(dbgrender.WindowOptions{Title: "Debug"})
	require.NoError(t, err)

	green := dbgrender.Color{G: 1, A: 1}
	require.NoError(t, dbgrender.DrawFrame(b, overlay, green))
	assert.Equal(t, b.primary, b.CurrentPair())

	// the middle of the console area is inside the panel
	w, h := screen.Size()
	dividerX := w - logPanelWidth - 1
	cell := cellAt(screen, dividerX/2, h/2)
	_, bg, _ := cell.Style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(0, 255, 0), bg)

	found := false
	for y := 0; y < h; y++ {
		if strings.Contains(rowText(screen, y), " Debug ") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestTerminal_DestroyPair(t *testing.T) {
	b, _ := newSimBackend(t, backend.BackendConfig{Title: "go-dbg"})

	p, err := b.CreatePair(dbgrender.WindowOptions{Title: "Debug"})
	require.NoError(t, err)
	require.NoError(t, b.MakeCurrent(p))

	b.DestroyPair(p)
	assert.Equal(t, dbgrender.Pair{}, b.CurrentPair())
	assert.Error(t, b.MakeCurrent(p))
}

func TestTerminal_Keys(t *testing.T) {
	k := input.NewKeyboard()
	m := input.NewManager(k)
	enabled := 0
	m.On(action.DebuggerEnable, event.Press, func() { enabled++ })

	quit := false
	b, screen := newSimBackend(t, backend.BackendConfig{
		Title:        "go-dbg",
		InputManager: m,
		Callbacks:    backend.BackendCallbacks{OnQuit: func() { quit = true }},
	})

	screen.InjectKey(tcell.KeyPause, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	b.PollEvents()

	assert.Equal(t, 1, enabled)
	assert.Equal(t, 2, k.Len())
	code, _ := k.Pop()
	assert.Equal(t, uint8(0x1E), code)
	code, _ = k.Pop()
	assert.Equal(t, input.ScancodeEnter, code)

	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	b.PollEvents()
	assert.True(t, quit)
}

func TestTerminal_LogLevel(t *testing.T) {
	b, screen := newSimBackend(t, backend.BackendConfig{Title: "go-dbg"})
	require.Equal(t, slog.LevelInfo, b.LogLevel())

	screen.InjectKey(tcell.KeyRune, '+', tcell.ModAlt)
	_, err := b.Update()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, b.LogLevel())

	screen.InjectKey(tcell.KeyRune, '-', tcell.ModAlt)
	screen.InjectKey(tcell.KeyRune, '-', tcell.ModAlt)
	_, err = b.Update()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, b.LogLevel())
}

func TestTerminal_LogsPanel(t *testing.T) {
	b, screen := newSimBackend(t, backend.BackendConfig{Title: "go-dbg"})

	slog.Info("Debug mode activated")
	_, err := b.Update()
	require.NoError(t, err)

	w, _ := screen.Size()
	dividerX := w - logPanelWidth - 1
	found := false
	for y := 1; y < 10; y++ {
		if strings.Contains(rowText(screen, y)[dividerX:], "Debug mode activated") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestTerminalImplementsBackend(t *testing.T) {
	var _ backend.Backend = (*Backend)(nil)
}
