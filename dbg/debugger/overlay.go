package debugger

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-dbg/dbg/display"
	"github.com/valerio/go-dbg/dbg/render"
)

// Overlay owns the debugger window and its rendering context. The pair is
// created on first use and destroyed once by Destroy.
type Overlay struct {
	ws     render.Windowing
	opts   render.WindowOptions
	scheme display.ColorScheme

	pair      render.Pair
	destroyed bool
}

func NewOverlay(ws render.Windowing, opts render.WindowOptions, scheme display.ColorScheme) *Overlay {
	return &Overlay{
		ws:     ws,
		opts:   opts,
		scheme: scheme,
	}
}

// Pair returns the overlay pair, the zero Pair if it doesn't exist.
func (o *Overlay) Pair() render.Pair {
	return o.pair
}

// Created reports whether the window exists.
func (o *Overlay) Created() bool {
	return o.pair.Valid()
}

func (o *Overlay) ensure() error {
	if o.pair.Valid() {
		return nil
	}
	if o.destroyed {
		return fmt.Errorf("overlay already destroyed: %w", render.ErrContextCreation)
	}

	pair, err := o.ws.CreatePair(o.opts)
	if err != nil {
		return fmt.Errorf("failed to create overlay %q: %w", o.opts.Title, err)
	}
	if !pair.Valid() {
		// partially created, don't leak the half we got
		o.ws.DestroyPair(pair)
		return fmt.Errorf("overlay %q got %v: %w", o.opts.Title, pair, render.ErrContextCreation)
	}

	slog.Debug("Overlay created", "title", o.opts.Title, "pair", pair)
	o.pair = pair
	return nil
}

// Raise brings the overlay to the front with input focus, creating it if
// needed.
func (o *Overlay) Raise() error {
	if err := o.ensure(); err != nil {
		return err
	}
	o.ws.Raise(o.pair)
	return nil
}

// Draw renders one overlay frame and restores the caller's pair.
func (o *Overlay) Draw() error {
	if err := o.ensure(); err != nil {
		return err
	}
	return render.DrawFrame(o.ws, o.pair, o.scheme.Background)
}

// Destroy releases the window and context. Later calls do nothing.
func (o *Overlay) Destroy() {
	if o.destroyed {
		return
	}
	o.destroyed = true

	if o.pair.Valid() {
		o.ws.DestroyPair(o.pair)
		slog.Debug("Overlay destroyed", "pair", o.pair)
	}
	o.pair = render.Pair{}
}
