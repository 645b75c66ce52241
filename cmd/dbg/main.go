package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli"
	"github.com/valerio/go-dbg/dbg"
	"github.com/valerio/go-dbg/dbg/backend"
	"github.com/valerio/go-dbg/dbg/backend/headless"
	"github.com/valerio/go-dbg/dbg/backend/sdl2"
	"github.com/valerio/go-dbg/dbg/backend/terminal"
	"github.com/valerio/go-dbg/dbg/debugger"
)

func main() {
	app := cli.NewApp()
	app.Name = "dbg"
	app.Description = "A DOS machine with a hotkey debugger overlay"
	app.Usage = "dbg [options] [program]"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "backend",
			Usage: "Platform backend: headless, terminal or sdl2",
			Value: "terminal",
		},
		cli.IntFlag{
			Name:  "ticks",
			Usage: "Number of ticks to run (0 = until quit, required for headless)",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "cycles",
			Usage: "Instructions executed per tick by the normal loop",
			Value: 3000,
		},
		cli.IntFlag{
			Name:  "timer-interval",
			Usage: "Ticks between timer interrupts",
			Value: 55,
		},
		cli.StringFlag{
			Name:  "limiter",
			Usage: "Tick pacing: none, ticker or adaptive",
			Value: "adaptive",
		},
		cli.StringFlag{
			Name:  "program",
			Usage: "Program to start through " + debugger.ProgramName,
		},
		cli.StringFlag{
			Name:  "args",
			Usage: "Argument tail passed to the program",
		},
		cli.BoolFlag{
			Name:  "break",
			Usage: "Enter the debugger through its callback on the first tick",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn or error",
			Value: "info",
		},
	}
	app.Action = runMachine

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running machine", "error", err)
		os.Exit(1)
	}
}

func runMachine(c *cli.Context) error {
	level, err := parseLevel(c.String("log-level"))
	if err != nil {
		return err
	}

	config := dbg.DefaultConfig()
	config.Backend = c.String("backend")
	config.Ticks = c.Int("ticks")
	config.CyclesPerTick = int32(c.Int("cycles"))
	config.TimerInterval = uint64(c.Int("timer-interval"))
	config.Limiter = c.String("limiter")
	config.Program = c.String("program")
	if config.Program == "" && c.NArg() > 0 {
		config.Program = c.Args().First()
	}
	config.Args = c.String("args")
	config.Break = c.Bool("break")
	config.LogLevel = level

	if config.CyclesPerTick <= 0 {
		return errors.New("--cycles must be positive")
	}

	b, err := newBackend(config)
	if err != nil {
		return err
	}

	m, err := dbg.New(config, b)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Shutdown(); err != nil {
			slog.Error("Failed to shut down", "error", err)
		}
	}()

	if config.Program != "" {
		line := strings.TrimSpace(fmt.Sprintf("%s %s %s", debugger.ProgramName, config.Program, config.Args))
		if err := m.Execute(line); err != nil {
			return err
		}
	}
	if config.Break {
		m.Break()
	}

	slog.Info("Running", "backend", config.Backend, "ticks", config.Ticks)
	m.Run(config.Ticks)
	slog.Info("Stopped", "ticks", m.Loops().Ticks(), "mode", m.Loops().Mode(), "timer_interrupts", m.Timer().Fired())
	return nil
}

func newBackend(config dbg.Config) (backend.Backend, error) {
	switch config.Backend {
	case "headless":
		if config.Ticks <= 0 {
			return nil, errors.New("headless backend requires --ticks option with a positive value")
		}
		setLogger(config.LogLevel)
		return headless.New(headless.Options{}), nil
	case "terminal":
		// the terminal backend installs its own log handler
		return terminal.New(), nil
	case "sdl2":
		setLogger(config.LogLevel)
		return sdl2.New(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", config.Backend)
	}
}

func setLogger(level slog.Level) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("failed to parse log level: %w", err)
	}
	return level, nil
}
