package loop

import (
	"fmt"
	"log/slog"
)

// Func is a per-tick loop function. A non-zero return value is a request
// code for the driver; zero means keep going.
type Func func() uint32

// Mode tells which loop the scheduler currently runs.
type Mode int

const (
	Normal Mode = iota
	Debug
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Debug:
		return "debug"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Scheduler holds the single active loop function invoked once per
// emulation tick. The baseline instruction loop is given at construction;
// any other installed function puts the scheduler in Debug mode until it is
// uninstalled.
type Scheduler struct {
	normal  Func
	current Func
	mode    Mode
	ticks   uint64
}

// New returns a scheduler running normal.
func New(normal Func) *Scheduler {
	return &Scheduler{
		normal:  normal,
		current: normal,
		mode:    Normal,
	}
}

// Install replaces the active loop function with fn.
func (s *Scheduler) Install(fn Func) {
	if fn == nil {
		slog.Warn("Ignoring install of a nil loop function")
		return
	}

	s.current = fn
	s.mode = Debug
	slog.Debug("Loop installed", "mode", s.mode, "tick", s.ticks)
}

// UninstallToNormal puts the baseline instruction loop back.
func (s *Scheduler) UninstallToNormal() {
	s.current = s.normal
	s.mode = Normal
	slog.Debug("Loop restored", "mode", s.mode, "tick", s.ticks)
}

// Mode returns which loop is installed.
func (s *Scheduler) Mode() Mode {
	return s.mode
}

// Tick runs the installed loop function once.
func (s *Scheduler) Tick() uint32 {
	s.ticks++
	if s.current == nil {
		return 0
	}
	return s.current()
}

// Ticks returns the number of ticks driven so far.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks
}
