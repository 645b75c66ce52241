package dbg

import (
	"log/slog"

	"github.com/valerio/go-dbg/dbg/debugger"
	"github.com/valerio/go-dbg/dbg/display"
	"github.com/valerio/go-dbg/dbg/events"
)

// Config holds the machine settings. The CLI fills it from flags.
type Config struct {
	Backend       string // "headless", "terminal" or "sdl2"
	Title         string
	Width         int32
	Height        int32
	Ticks         int    // ticks to run, 0 runs until quit
	CyclesPerTick int32  // instructions budget of one normal loop tick
	TimerInterval uint64 // ticks between IRQ0
	Limiter       string // "none", "ticker" or "adaptive"

	Program string // run through DBG on start when set
	Args    string
	Break   bool // call the debugger callback on start

	Debugger debugger.Config
	LogLevel slog.Level
}

// DefaultConfig returns the settings used when no flags are given.
func DefaultConfig() Config {
	return Config{
		Backend:       "terminal",
		Title:         display.PrimaryTitle,
		Width:         display.PrimaryWidth,
		Height:        display.PrimaryHeight,
		CyclesPerTick: 3000,
		TimerInterval: events.DefaultTimerInterval,
		Limiter:       "adaptive",
		Debugger:      debugger.DefaultConfig(),
		LogLevel:      slog.LevelInfo,
	}
}
