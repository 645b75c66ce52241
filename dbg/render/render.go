// Package render holds the rendering surface/context abstraction shared by
// the windowing backends and the context switch used to draw on a secondary
// surface without disturbing the primary one.
package render

import (
	"errors"
	"fmt"
)

var (
	// ErrContextCreation is returned when a backend could not create a
	// surface or a context, or handed back a null handle.
	ErrContextCreation = errors.New("failed to create rendering surface/context")

	// ErrNestedSwitch is returned by Enter when the switch is already
	// entered. Leave must be called first.
	ErrNestedSwitch = errors.New("rendering context switch already entered")

	// ErrNotEntered is returned by Leave without a matching Enter.
	ErrNotEntered = errors.New("rendering context switch not entered")
)

// SurfaceHandle identifies a window. Zero is the null handle.
type SurfaceHandle uint64

// ContextHandle identifies a rendering context. Zero is the null handle.
type ContextHandle uint64

// Pair is a surface together with the context drawing on it.
type Pair struct {
	Surface SurfaceHandle
	Context ContextHandle
}

// Valid reports whether both handles are non-null.
func (p Pair) Valid() bool {
	return p.Surface != 0 && p.Context != 0
}

func (p Pair) String() string {
	return fmt.Sprintf("surface=%d context=%d", p.Surface, p.Context)
}

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// RGBA8 converts the color to 8 bit components.
func (c Color) RGBA8() (r, g, b, a uint8) {
	return to8(c.R), to8(c.G), to8(c.B), to8(c.A)
}

func to8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}

// WindowOptions describe a surface to create.
type WindowOptions struct {
	Title     string
	Width     int32
	Height    int32
	Resizable bool
}

// EventPump dispatches pending window system events.
type EventPump interface {
	PollEvents()
}

// Windowing is the window system as seen by the debugger: surface and
// context lifetime, the process-wide current pair, and focus.
type Windowing interface {
	EventPump

	// CurrentPair returns the pair active right now. It may be the zero
	// Pair when nothing is current.
	CurrentPair() Pair
	// MakeCurrent activates p. Activating the zero Pair releases the
	// current context.
	MakeCurrent(p Pair) error

	CreatePair(opts WindowOptions) (Pair, error)
	DestroyPair(p Pair)

	// Clear clears the current surface to c.
	Clear(c Color)
	// Present shows what was drawn on p.
	Present(p Pair)

	// Raise brings p to the front and gives it input focus.
	Raise(p Pair)
	// LosingFocus tells the primary UI it is about to lose focus.
	LosingFocus()
}
