package headless

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/valerio/go-dbg/dbg/backend"
	"github.com/valerio/go-dbg/dbg/render"
)

// Window is what the headless backend remembers about a surface.
type Window struct {
	Options   render.WindowOptions
	Frames    int
	LastColor render.Color
	Raised    int
	Destroyed bool
}

// Options tune the headless backend.
type Options struct {
	// FailCreate makes every CreatePair after Init fail.
	FailCreate bool
}

// Backend implements the Backend interface for automated testing and batch
// processing. Windows are bookkeeping only and console output is kept in
// memory.
type Backend struct {
	config  backend.BackendConfig
	options Options

	windows []*Window // indexed by handle-1
	current render.Pair
	primary render.Pair
	pending render.Color

	console     strings.Builder
	queue       []backend.InputEvent
	polls       int
	focusLosses int
}

func New(options Options) *Backend {
	return &Backend{
		options: options,
	}
}

func (h *Backend) Init(config backend.BackendConfig) error {
	h.config = config

	primary, err := h.create(config.PrimaryOptions())
	if err != nil {
		return fmt.Errorf("failed to create primary window: %w", err)
	}
	h.primary = primary
	h.current = primary

	slog.Info("Running headless mode", "title", config.Title)
	return nil
}

// Update returns the events queued with PushEvent.
func (h *Backend) Update() ([]backend.InputEvent, error) {
	events := h.queue
	h.queue = nil
	return events, nil
}

// PollEvents dispatches the queued events.
func (h *Backend) PollEvents() {
	h.polls++
	events, _ := h.Update()
	backend.Dispatch(h.config, events)
}

// PushEvent queues an event for the next poll.
func (h *Backend) PushEvent(evt backend.InputEvent) {
	h.queue = append(h.queue, evt)
}

func (h *Backend) CurrentPair() render.Pair {
	return h.current
}

func (h *Backend) MakeCurrent(p render.Pair) error {
	if p == (render.Pair{}) {
		h.current = p
		return nil
	}
	if _, err := h.lookup(p); err != nil {
		return err
	}
	h.current = p
	return nil
}

func (h *Backend) CreatePair(opts render.WindowOptions) (render.Pair, error) {
	if h.options.FailCreate {
		return render.Pair{}, fmt.Errorf("headless window %q: %w", opts.Title, render.ErrContextCreation)
	}
	return h.create(opts)
}

func (h *Backend) create(opts render.WindowOptions) (render.Pair, error) {
	h.windows = append(h.windows, &Window{Options: opts})
	handle := uint64(len(h.windows))

	p := render.Pair{Surface: render.SurfaceHandle(handle), Context: render.ContextHandle(handle)}
	slog.Debug("Headless window created", "title", opts.Title, "pair", p)
	return p, nil
}

func (h *Backend) DestroyPair(p render.Pair) {
	w, err := h.lookup(p)
	if err != nil {
		return
	}
	w.Destroyed = true
	if h.current == p {
		h.current = render.Pair{}
	}
}

// Clear records the color for the next Present of the current pair.
func (h *Backend) Clear(c render.Color) {
	h.pending = c
}

func (h *Backend) Present(p render.Pair) {
	w, err := h.lookup(p)
	if err != nil {
		slog.Warn("Present on unknown window", "pair", p)
		return
	}
	w.Frames++
	w.LastColor = h.pending
}

func (h *Backend) Raise(p render.Pair) {
	if w, err := h.lookup(p); err == nil {
		w.Raised++
	}
}

func (h *Backend) LosingFocus() {
	h.focusLosses++
}

func (h *Backend) WriteOut(s string) {
	h.console.WriteString(s)
	if h.config.Callbacks.OnDebugMessage != nil {
		h.config.Callbacks.OnDebugMessage(s)
	}
}

func (h *Backend) Cleanup() error {
	for i, w := range h.windows {
		if !w.Destroyed {
			slog.Debug("Destroying window left open", "title", w.Options.Title, "handle", i+1)
			w.Destroyed = true
		}
	}
	h.current = render.Pair{}
	return nil
}

// Console returns everything written to the console.
func (h *Backend) Console() string {
	return h.console.String()
}

// Primary returns the primary window pair.
func (h *Backend) Primary() render.Pair {
	return h.primary
}

// Window returns the bookkeeping for p, nil if p is unknown.
func (h *Backend) Window(p render.Pair) *Window {
	w, err := h.lookup(p)
	if err != nil {
		return nil
	}
	return w
}

// Windows returns every window created so far, in creation order.
func (h *Backend) Windows() []*Window {
	return h.windows
}

// Polls returns how many times PollEvents was called.
func (h *Backend) Polls() int {
	return h.polls
}

// FocusLosses returns how many times LosingFocus was called.
func (h *Backend) FocusLosses() int {
	return h.focusLosses
}

func (h *Backend) lookup(p render.Pair) (*Window, error) {
	if !p.Valid() || p.Surface != render.SurfaceHandle(p.Context) {
		return nil, fmt.Errorf("headless: no window for %v", p)
	}
	i := int(p.Surface) - 1
	if i < 0 || i >= len(h.windows) || h.windows[i].Destroyed {
		return nil, fmt.Errorf("headless: no window for %v", p)
	}
	return h.windows[i], nil
}
