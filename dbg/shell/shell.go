package shell

import (
	"fmt"
	"log/slog"
	"strings"
)

// Shell runs programs out of a registry, writing their output to a console.
type Shell struct {
	registry *Registry
	console  Console
}

func New(registry *Registry, console Console) *Shell {
	return &Shell{
		registry: registry,
		console:  console,
	}
}

// Console returns the console programs write to.
func (s *Shell) Console() Console {
	return s.console
}

// ExecuteProgram runs the program called name with the given argument tail.
// It returns false if no such program exists. Errors returned by the program
// itself are logged; the program was still found and run.
func (s *Shell) ExecuteProgram(name, args string) bool {
	p, err := s.registry.Lookup(name)
	if err != nil {
		slog.Debug("Program lookup failed", "name", name, "error", err)
		return false
	}

	slog.Debug("Executing program", "name", name, "args", args)
	if err := p.Run(NewCommandLine(name, args), s.console); err != nil {
		slog.Warn("Program failed", "name", name, "error", err)
	}
	return true
}

// Execute runs a full command line: the first token names the program and
// the rest is its argument tail. Unknown commands get the
// PROGRAM_EXECUTABLE_MISSING message.
func (s *Shell) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	name, args, _ := strings.Cut(line, " ")
	if !s.ExecuteProgram(name, strings.TrimSpace(args)) {
		s.console.WriteOut(Messagef(MsgProgramExecutableMissing, name))
		return fmt.Errorf("%s: %w", name, ErrExecutableNotFound)
	}
	return nil
}
