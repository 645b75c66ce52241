package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-dbg/dbg/backend"
	"github.com/valerio/go-dbg/dbg/backend/terminal/render"
	"github.com/valerio/go-dbg/dbg/input"
	"github.com/valerio/go-dbg/dbg/input/action"
	"github.com/valerio/go-dbg/dbg/input/event"
	dbgrender "github.com/valerio/go-dbg/dbg/render"
)

const (
	logPanelWidth  = 40
	minTermWidth   = 60
	minTermHeight  = 16
	consoleLines   = 200
	logBufferLines = 100
)

// panel is a window drawn as a box on the terminal.
type panel struct {
	opts      dbgrender.WindowOptions
	color     dbgrender.Color
	presented bool
	destroyed bool
}

// Backend implements the Backend interface using tcell. The primary window
// is the DOS console on the left, every other window is a box drawn over it
// and the right column shows recent logs.
type Backend struct {
	screen    tcell.Screen
	newScreen func() (tcell.Screen, error)
	running   bool
	logBuffer *render.LogBuffer
	logLevel  *slog.LevelVar
	config    backend.BackendConfig

	panels  []*panel
	order   []int // panel indexes, back to front
	current dbgrender.Pair
	primary dbgrender.Pair
	pending dbgrender.Color

	console []string

	mu         sync.Mutex
	eventQueue []backend.InputEvent // Collect events to return
}

// New creates a new terminal backend
func New() *Backend {
	return &Backend{
		newScreen: tcell.NewScreen,
		logLevel:  new(slog.LevelVar),
		console:   []string{""},
	}
}

// NewWithScreen creates a terminal backend drawing on screen. Init won't
// install signal handlers; meant for simulation screens.
func NewWithScreen(screen tcell.Screen) *Backend {
	b := New()
	b.newScreen = func() (tcell.Screen, error) { return screen, nil }
	b.screen = screen
	return b
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.BackendConfig) error {
	t.config = config

	external := t.screen != nil
	screen, err := t.newScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}

	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}

	t.screen = screen
	t.running = true

	// Create log buffer and set up logging
	t.logBuffer = render.NewLogBuffer(logBufferLines)
	t.logLevel.Set(config.LogLevel)

	handler := render.NewLogBufferHandler(t.logBuffer, slog.LevelDebug)
	slog.SetDefault(slog.New(handler))

	t.primary = t.addPanel(config.PrimaryOptions())
	t.current = t.primary

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	if !external {
		// Set up signal handling for graceful shutdown
		go t.handleSignals()
	}

	slog.Info("Terminal backend initialized")
	return nil
}

// Update polls terminal events and redraws the screen
func (t *Backend) Update() ([]backend.InputEvent, error) {
	for t.screen.HasPendingEvent() {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	t.mu.Lock()
	events := t.eventQueue
	t.eventQueue = nil
	t.mu.Unlock()

	for _, evt := range events {
		t.handleAction(evt.Action)
	}

	if t.running {
		t.draw()
		t.screen.Show()
	}
	return events, nil
}

// PollEvents runs Update and dispatches what it returned
func (t *Backend) PollEvents() {
	events, err := t.Update()
	if err != nil {
		slog.Warn("Terminal update failed", "error", err)
		return
	}
	backend.Dispatch(t.config, events)
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	return nil
}

func (t *Backend) CurrentPair() dbgrender.Pair {
	return t.current
}

func (t *Backend) MakeCurrent(p dbgrender.Pair) error {
	if p == (dbgrender.Pair{}) {
		t.current = p
		return nil
	}
	if _, err := t.lookup(p); err != nil {
		return err
	}
	t.current = p
	return nil
}

func (t *Backend) CreatePair(opts dbgrender.WindowOptions) (dbgrender.Pair, error) {
	if t.screen == nil {
		return dbgrender.Pair{}, fmt.Errorf("terminal not initialized: %w", dbgrender.ErrContextCreation)
	}
	return t.addPanel(opts), nil
}

func (t *Backend) addPanel(opts dbgrender.WindowOptions) dbgrender.Pair {
	t.panels = append(t.panels, &panel{opts: opts})
	idx := len(t.panels) - 1
	t.order = append(t.order, idx)

	handle := uint64(len(t.panels))
	return dbgrender.Pair{Surface: dbgrender.SurfaceHandle(handle), Context: dbgrender.ContextHandle(handle)}
}

func (t *Backend) DestroyPair(p dbgrender.Pair) {
	pn, err := t.lookup(p)
	if err != nil {
		return
	}
	pn.destroyed = true
	if t.current == p {
		t.current = dbgrender.Pair{}
	}
}

// Clear sets the color the current panel is filled with on its next Present
func (t *Backend) Clear(c dbgrender.Color) {
	t.pending = c
}

func (t *Backend) Present(p dbgrender.Pair) {
	pn, err := t.lookup(p)
	if err != nil {
		slog.Warn("Present on unknown window", "pair", p)
		return
	}
	pn.color = t.pending
	pn.presented = true

	t.draw()
	t.screen.Show()
}

// Raise moves the panel on top of every other one
func (t *Backend) Raise(p dbgrender.Pair) {
	if _, err := t.lookup(p); err != nil {
		return
	}
	idx := int(p.Surface) - 1
	for i, v := range t.order {
		if v == idx {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	t.order = append(t.order, idx)
}

func (t *Backend) LosingFocus() {
	slog.Debug("Console losing focus")
}

// WriteOut appends text to the console panel
func (t *Backend) WriteOut(s string) {
	lines := strings.Split(s, "\n")
	t.console[len(t.console)-1] += lines[0]
	t.console = append(t.console, lines[1:]...)
	if len(t.console) > consoleLines {
		t.console = t.console[len(t.console)-consoleLines:]
	}
	if t.config.Callbacks.OnDebugMessage != nil {
		t.config.Callbacks.OnDebugMessage(s)
	}
}

func (t *Backend) lookup(p dbgrender.Pair) (*panel, error) {
	if !p.Valid() || p.Surface != dbgrender.SurfaceHandle(p.Context) {
		return nil, fmt.Errorf("terminal: no window for %v", p)
	}
	i := int(p.Surface) - 1
	if i < 0 || i >= len(t.panels) || t.panels[i].destroyed {
		return nil, fmt.Errorf("terminal: no window for %v", p)
	}
	return t.panels[i], nil
}

func (t *Backend) handleSignals() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	<-signals
	// Signal quit via event queue
	t.queue(backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
}

func (t *Backend) queue(evt backend.InputEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.eventQueue = append(t.eventQueue, evt)
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyPause:  "Pause",
	tcell.KeyEscape: "Escape",
	tcell.KeyF11:    "F11",
	tcell.KeyF12:    "F12",
}

// keyScancodes maps non-rune keys forwarded to the emulated keyboard
var keyScancodes = map[tcell.Key]uint8{
	tcell.KeyEnter:      input.ScancodeEnter,
	tcell.KeyBackspace:  input.ScancodeBackspace,
	tcell.KeyBackspace2: input.ScancodeBackspace,
	tcell.KeyTab:        input.ScancodeTab,
}

// buildKeyMapping creates the key mapping from default mappings
func buildKeyMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)

	for key, keyName := range tcellKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}

	mapping[tcell.KeyCtrlC] = action.EmulatorQuit

	return mapping
}

// keyMapping maps tcell keys to actions
var keyMapping = buildKeyMapping()

func (t *Backend) processKeyEvent(ev *tcell.EventKey) {
	if act, exists := keyMapping[ev.Key()]; exists {
		if act == action.EmulatorQuit {
			t.running = false
		}
		t.queue(backend.InputEvent{Action: act, Type: event.Press})
		return
	}

	// everything else is typed into the emulated keyboard
	var code uint8
	var ok bool
	if ev.Key() == tcell.KeyRune {
		switch ev.Rune() {
		case '+', '=':
			if ev.Modifiers()&tcell.ModAlt != 0 {
				t.queue(backend.InputEvent{Action: action.DebugLogLevelIncrease, Type: event.Press})
				return
			}
		case '-', '_':
			if ev.Modifiers()&tcell.ModAlt != 0 {
				t.queue(backend.InputEvent{Action: action.DebugLogLevelDecrease, Type: event.Press})
				return
			}
		}
		code, ok = input.ScancodeForRune(ev.Rune())
	} else {
		code, ok = keyScancodes[ev.Key()]
	}

	if ok && t.config.InputManager != nil {
		t.config.InputManager.Key(code)
	}
}

// handleAction processes backend-specific actions
func (t *Backend) handleAction(act action.Action) {
	switch act {
	case action.DebugLogLevelIncrease:
		t.changeLogLevel(1)
	case action.DebugLogLevelDecrease:
		t.changeLogLevel(-1)
	}
}

func (t *Backend) changeLogLevel(direction int) {
	oldLevel := t.logLevel.Level()
	newLevel := oldLevel
	switch direction {
	case -1:
		switch oldLevel {
		case slog.LevelDebug:
			newLevel = slog.LevelInfo
		case slog.LevelInfo:
			newLevel = slog.LevelWarn
		case slog.LevelWarn:
			newLevel = slog.LevelError
		}
	case 1:
		switch oldLevel {
		case slog.LevelError:
			newLevel = slog.LevelWarn
		case slog.LevelWarn:
			newLevel = slog.LevelInfo
		case slog.LevelInfo:
			newLevel = slog.LevelDebug
		}
	}
	if oldLevel != newLevel {
		t.logLevel.Set(newLevel)
		slog.Info("Log filter changed", "from", oldLevel, "to", newLevel)
	}
}

// LogLevel returns the level the log panel filters at
func (t *Backend) LogLevel() slog.Level {
	return t.logLevel.Level()
}

func (t *Backend) draw() {
	termWidth, termHeight := t.screen.Size()
	if termWidth < minTermWidth || termHeight < minTermHeight {
		t.screen.Clear()
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		drawText(t.screen, 0, termHeight/2, termWidth, msg, style)
		return
	}

	t.screen.Clear()

	dividerX := termWidth - logPanelWidth - 1
	t.drawBorders(termWidth, termHeight, dividerX)

	for _, idx := range t.order {
		pn := t.panels[idx]
		if pn.destroyed {
			continue
		}
		if idx == int(t.primary.Surface)-1 {
			t.drawConsole(1, 1, dividerX-1, termHeight-2)
			continue
		}
		if pn.presented {
			t.drawPanel(pn, dividerX, termHeight)
		}
	}

	t.drawLogs(dividerX+1, 1, logPanelWidth, termHeight)
}

func (t *Backend) drawBorders(termWidth, termHeight, dividerX int) {
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	for y := 0; y < termHeight; y++ {
		t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
	}

	drawText(t.screen, 1, 0, dividerX-1, fmt.Sprintf(" %s ", t.config.Title), titleStyle)

	levelStr := "INFO"
	switch t.logLevel.Level() {
	case slog.LevelDebug:
		levelStr = "DEBUG"
	case slog.LevelWarn:
		levelStr = "WARN"
	case slog.LevelError:
		levelStr = "ERROR"
	}
	drawText(t.screen, dividerX+2, 0, termWidth-dividerX-2, fmt.Sprintf(" Logs [%s] (Alt -/+) ", levelStr), titleStyle)

	helpText := " Pause/F12=debugger  ESC=exit "
	drawText(t.screen, 0, termHeight-1, termWidth, helpText, borderStyle)
}

func (t *Backend) drawConsole(x, y, width, height int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorSilver)
	lines := t.console
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	for i, line := range lines {
		drawText(t.screen, x, y+i, width, line, style)
	}
}

// drawPanel fills a centered box over the console area with the panel's
// color and writes its title on the top edge.
func (t *Backend) drawPanel(pn *panel, areaWidth, areaHeight int) {
	w := areaWidth * 2 / 3
	h := areaHeight * 2 / 3
	x0 := (areaWidth - w) / 2
	y0 := (areaHeight - h) / 2

	r, g, b, _ := pn.color.RGBA8()
	fill := tcell.StyleDefault.Background(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			t.screen.SetContent(x, y, ' ', nil, fill)
		}
	}

	titleStyle := fill.Foreground(tcell.ColorWhite).Bold(true)
	drawText(t.screen, x0+1, y0, w-2, fmt.Sprintf(" %s ", pn.opts.Title), titleStyle)
}

func (t *Backend) drawLogs(startX, startY, width, termHeight int) {
	availableHeight := termHeight - startY - 1
	if width <= 0 || availableHeight <= 0 {
		return
	}

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	logs := t.logBuffer.Recent(availableHeight, t.logLevel.Level())
	for i, logEntry := range logs {
		style := infoStyle
		switch logEntry.Level {
		case slog.LevelDebug:
			style = debugStyle
		case slog.LevelWarn:
			style = warnStyle
		case slog.LevelError:
			style = errStyle
		}

		logText := render.FormatLogEntry(logEntry)
		if len(logText) > width && width > 3 {
			logText = logText[:width-3] + "..."
		}
		drawText(t.screen, startX, startY+i, width, logText, style)
	}
}

func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	i := 0
	for _, ch := range text {
		if i >= width {
			break
		}
		screen.SetContent(x+i, y, ch, nil, style)
		i++
	}
}
