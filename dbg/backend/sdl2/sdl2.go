//go:build sdl2

package sdl2

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/valerio/go-dbg/dbg/backend"
	"github.com/valerio/go-dbg/dbg/input"
	"github.com/valerio/go-dbg/dbg/input/action"
	"github.com/valerio/go-dbg/dbg/input/event"
	"github.com/valerio/go-dbg/dbg/render"
	"github.com/veandco/go-sdl2/sdl"
)

func init() {
	// SDL and OpenGL calls must all come from the main thread
	runtime.LockOSThread()
}

const windowFlags = sdl.WINDOW_OPENGL | sdl.WINDOW_SHOWN

// glWindow is an SDL window together with its OpenGL context.
type glWindow struct {
	window  *sdl.Window
	context sdl.GLContext
	owned   bool // created by us, destroyed by DestroyPair/Cleanup
}

// Backend implements the Backend interface using SDL2 and OpenGL.
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stubbed backend, see build tags (sdl2)
type Backend struct {
	running   bool
	callbacks backend.BackendCallbacks
	config    backend.BackendConfig

	windows map[uint64]*glWindow
	next    uint64
	primary render.Pair

	glReady    bool
	eventQueue []backend.InputEvent

	// Input management
	inputManager *input.Manager
}

// New creates a new SDL2 backend
func New() *Backend {
	return &Backend{
		windows: make(map[uint64]*glWindow),
		next:    1,
	}
}

// Init initializes SDL and opens the primary window
func (s *Backend) Init(config backend.BackendConfig) error {
	s.config = config
	s.callbacks = config.Callbacks
	s.inputManager = config.InputManager

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %v", err)
	}

	_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 2)
	_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	_ = sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)

	primary, err := s.CreatePair(config.PrimaryOptions())
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create primary window: %w", err)
	}
	s.primary = primary

	if err := s.MakeCurrent(primary); err != nil {
		_ = s.Cleanup()
		return err
	}

	s.running = true
	slog.Info("SDL2 backend initialized")
	return nil
}

// Update processes SDL events and returns them as actions
func (s *Backend) Update() ([]backend.InputEvent, error) {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		s.handleEvent(e)
	}

	events := s.eventQueue
	s.eventQueue = nil
	return events, nil
}

// PollEvents runs Update and dispatches the result
func (s *Backend) PollEvents() {
	events, err := s.Update()
	if err != nil {
		slog.Warn("SDL2 update failed", "error", err)
		return
	}
	backend.Dispatch(s.config, events)
}

// Cleanup destroys every window we created and shuts SDL down
func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	for handle, w := range s.windows {
		if w.owned {
			sdl.GLDeleteContext(w.context)
			_ = w.window.Destroy()
		}
		delete(s.windows, handle)
	}
	sdl.Quit()
	return nil
}

// CurrentPair asks SDL for the current window and context. A pair SDL
// reports that we didn't create gets a handle too, so it can be restored.
func (s *Backend) CurrentPair() render.Pair {
	window, err := sdl.GLGetCurrentWindow()
	if err != nil || window == nil {
		return render.Pair{}
	}
	context, err := sdl.GLGetCurrentContext()
	if err != nil || context == nil {
		return render.Pair{}
	}

	for handle, w := range s.windows {
		if w.window == window && w.context == context {
			return render.Pair{Surface: render.SurfaceHandle(handle), Context: render.ContextHandle(handle)}
		}
	}

	handle := s.register(&glWindow{window: window, context: context})
	return render.Pair{Surface: render.SurfaceHandle(handle), Context: render.ContextHandle(handle)}
}

func (s *Backend) MakeCurrent(p render.Pair) error {
	if p == (render.Pair{}) {
		// release whatever is current
		w, ok := s.windows[uint64(s.primary.Surface)]
		if !ok {
			return nil
		}
		var none sdl.GLContext
		if err := w.window.GLMakeCurrent(none); err != nil {
			return fmt.Errorf("failed to release OpenGL context: %v", err)
		}
		return nil
	}

	w, err := s.lookup(p)
	if err != nil {
		return err
	}
	if err := w.window.GLMakeCurrent(w.context); err != nil {
		return fmt.Errorf("failed to set current OpenGL context: %v", err)
	}
	return nil
}

func (s *Backend) CreatePair(opts render.WindowOptions) (render.Pair, error) {
	flags := uint32(windowFlags)
	if opts.Resizable {
		flags |= sdl.WINDOW_RESIZABLE
	}

	window, err := sdl.CreateWindow(opts.Title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, opts.Width, opts.Height, flags)
	if err != nil {
		return render.Pair{}, fmt.Errorf("failed to create window %q: %v: %w", opts.Title, err, render.ErrContextCreation)
	}

	context, err := window.GLCreateContext()
	if err != nil || context == nil {
		_ = window.Destroy()
		return render.Pair{}, fmt.Errorf("failed to create OpenGL context for %q: %v: %w", opts.Title, err, render.ErrContextCreation)
	}

	if !s.glReady {
		if err := gl.Init(); err != nil {
			sdl.GLDeleteContext(context)
			_ = window.Destroy()
			return render.Pair{}, fmt.Errorf("failed to initialize OpenGL: %v: %w", err, render.ErrContextCreation)
		}
		s.glReady = true
	}

	handle := s.register(&glWindow{window: window, context: context, owned: true})
	slog.Debug("SDL2 window created", "title", opts.Title, "handle", handle)
	return render.Pair{Surface: render.SurfaceHandle(handle), Context: render.ContextHandle(handle)}, nil
}

func (s *Backend) register(w *glWindow) uint64 {
	handle := s.next
	s.next++
	s.windows[handle] = w
	return handle
}

func (s *Backend) DestroyPair(p render.Pair) {
	w, err := s.lookup(p)
	if err != nil {
		return
	}
	if w.owned {
		sdl.GLDeleteContext(w.context)
		_ = w.window.Destroy()
	}
	delete(s.windows, uint64(p.Surface))
}

// Clear clears the current context's color buffer
func (s *Backend) Clear(c render.Color) {
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (s *Backend) Present(p render.Pair) {
	w, err := s.lookup(p)
	if err != nil {
		slog.Warn("Present on unknown window", "pair", p)
		return
	}
	w.window.GLSwap()
}

func (s *Backend) Raise(p render.Pair) {
	w, err := s.lookup(p)
	if err != nil {
		return
	}
	w.window.Raise()
	if err := w.window.SetInputFocus(); err != nil {
		slog.Debug("Window refused input focus", "error", err)
	}
}

// LosingFocus releases grabs held by the primary window
func (s *Backend) LosingFocus() {
	if w, ok := s.windows[uint64(s.primary.Surface)]; ok {
		w.window.SetGrab(false)
	}
}

// WriteOut prints console output to stdout, SDL has no text rendering here
func (s *Backend) WriteOut(text string) {
	fmt.Fprint(os.Stdout, text)
	if s.callbacks.OnDebugMessage != nil {
		s.callbacks.OnDebugMessage(text)
	}
}

func (s *Backend) lookup(p render.Pair) (*glWindow, error) {
	if !p.Valid() || uint64(p.Surface) != uint64(p.Context) {
		return nil, fmt.Errorf("sdl2: no window for %v", p)
	}
	w, ok := s.windows[uint64(p.Surface)]
	if !ok {
		return nil, fmt.Errorf("sdl2: no window for %v", p)
	}
	return w, nil
}

func (s *Backend) handleEvent(e sdl.Event) {
	switch e := e.(type) {
	case *sdl.QuitEvent:
		s.running = false
		s.eventQueue = append(s.eventQueue, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN {
			s.handleKeyDown(e.Keysym.Sym, e.Repeat)
		}
	}
}

// keyMapping maps SDL2 keys to actions
var keyMapping = map[sdl.Keycode]action.Action{
	sdl.K_PAUSE:  action.DebuggerEnable,
	sdl.K_F12:    action.DebuggerEnable,
	sdl.K_F11:    action.EmulatorPauseToggle,
	sdl.K_ESCAPE: action.EmulatorQuit,
}

var keyScancodes = map[sdl.Keycode]uint8{
	sdl.K_RETURN:    input.ScancodeEnter,
	sdl.K_BACKSPACE: input.ScancodeBackspace,
	sdl.K_TAB:       input.ScancodeTab,
}

func (s *Backend) handleKeyDown(key sdl.Keycode, repeat uint8) {
	if act, exists := keyMapping[key]; exists {
		// Ignore key repeat events for actions
		if repeat != 0 {
			return
		}
		s.eventQueue = append(s.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
		return
	}

	if s.inputManager == nil {
		return
	}
	if code, ok := keyScancodes[key]; ok {
		s.inputManager.Key(code)
		return
	}
	if key < 0x80 {
		if code, ok := input.ScancodeForRune(rune(key)); ok {
			s.inputManager.Key(code)
		}
	}
}
