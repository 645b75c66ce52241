package backend

import (
	"log/slog"

	"github.com/valerio/go-dbg/dbg/input"
	"github.com/valerio/go-dbg/dbg/input/action"
	"github.com/valerio/go-dbg/dbg/input/event"
	"github.com/valerio/go-dbg/dbg/render"
	"github.com/valerio/go-dbg/dbg/shell"
)

// Backend represents a complete emulator platform (windows + input + console).
// Backends are responsible for:
// - Creating windows and rendering contexts and keeping track of the current one
// - Translating platform-specific input events to Actions via InputManager
// - Showing what programs write to the DOS console
type Backend interface {
	render.Windowing
	shell.Console

	// Init configures the backend with the provided configuration and
	// creates the primary window, which becomes the current pair.
	// This is a required step before anything else.
	Init(config BackendConfig) error

	// Update polls platform events and returns them translated to
	// actions. PollEvents calls it and dispatches the result.
	Update() ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// InputEvent is a platform event translated to an action.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title        string
	Width        int32
	Height       int32
	LogLevel     slog.Level       // Minimum level backends with a log view show
	Callbacks    BackendCallbacks // Callbacks for backend communication
	InputManager *input.Manager   // Shared input manager for unified input handling
}

// BackendCallbacks allows backends to communicate with the emulator
type BackendCallbacks struct {
	// Control callbacks
	OnQuit func() // Backend requests shutdown (e.g., window close)

	// Debug callbacks (optional)
	OnDebugMessage func(message string) // Backend can send debug info to emulator
}

// Dispatch forwards events to the input manager. Quit requests also reach
// OnQuit so backends without an input manager can still stop the emulator.
func Dispatch(config BackendConfig, events []InputEvent) {
	for _, evt := range events {
		if evt.Action == action.EmulatorQuit && evt.Type == event.Press && config.Callbacks.OnQuit != nil {
			config.Callbacks.OnQuit()
		}
		if config.InputManager == nil {
			continue
		}
		slog.Debug("Dispatching input", "action", evt.Action, "type", evt.Type)
		config.InputManager.Trigger(evt.Action, evt.Type)
	}
}

// PrimaryOptions returns the window options of the primary window.
func (c BackendConfig) PrimaryOptions() render.WindowOptions {
	return render.WindowOptions{
		Title:     c.Title,
		Width:     c.Width,
		Height:    c.Height,
		Resizable: true,
	}
}
