//go:build !sdl2

package sdl2

import (
	"errors"
	"fmt"

	"github.com/valerio/go-dbg/dbg/backend"
	"github.com/valerio/go-dbg/dbg/render"
)

var errUnavailable = errors.New("SDL2 backend not available - build with -tags sdl2 to enable")

// Backend stub for when SDL2 is not available
type Backend struct{}

// New creates a stub SDL2 backend that returns an error
func New() *Backend {
	return &Backend{}
}

// Init returns an error indicating SDL2 is not available
func (s *Backend) Init(config backend.BackendConfig) error {
	return errUnavailable
}

// Update returns an error
func (s *Backend) Update() ([]backend.InputEvent, error) {
	return nil, errUnavailable
}

// Cleanup does nothing
func (s *Backend) Cleanup() error {
	return nil
}

func (s *Backend) PollEvents()              {}
func (s *Backend) CurrentPair() render.Pair { return render.Pair{} }
func (s *Backend) MakeCurrent(render.Pair) error {
	return errUnavailable
}

func (s *Backend) CreatePair(opts render.WindowOptions) (render.Pair, error) {
	return render.Pair{}, fmt.Errorf("%v: %w", errUnavailable, render.ErrContextCreation)
}

func (s *Backend) DestroyPair(render.Pair) {}
func (s *Backend) Clear(render.Color)      {}
func (s *Backend) Present(render.Pair)     {}
func (s *Backend) Raise(render.Pair)       {}
func (s *Backend) LosingFocus()            {}
func (s *Backend) WriteOut(string)         {}
