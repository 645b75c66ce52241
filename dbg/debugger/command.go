package debugger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/valerio/go-dbg/dbg/shell"
)

// MaxArgsLength is the longest argument tail DBG passes to a program.
const MaxArgsLength = 256

// mouseVector is the real-mode address of the INT 33h vector.
const mouseVector = 0x33 << 2

// ErrArgumentsTooLong is returned when the joined arguments don't fit in
// MaxArgsLength bytes.
var ErrArgumentsTooLong = errors.New("program arguments too long")

// Command is the DBG.COM program.
//
//	DBG /NOMOUSE           clears the mouse driver interrupt vector
//	DBG PROGRAM [ARGS...]  runs PROGRAM under the debugger
type Command struct {
	mem    RealWriter
	runner *Runner
}

func (c *Command) Run(cmd *shell.CommandLine, console shell.Console) error {
	if cmd.FindExist("/NOMOUSE", false) {
		c.mem.RealWriteD(0, mouseVector, 0)
		return nil
	}

	name, ok := cmd.FindCommand(1)
	if !ok {
		return nil
	}

	args, err := joinArgs(cmd)
	if err != nil {
		console.WriteOut(shell.Messagef(shell.MsgArgumentsTooLong, name))
		return fmt.Errorf("%s: %w", name, err)
	}

	return c.runner.Run(name, args)
}

func joinArgs(cmd *shell.CommandLine) (string, error) {
	var sb strings.Builder
	for n := 2; ; n++ {
		tok, ok := cmd.FindCommand(n)
		if !ok {
			break
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(tok)
		if sb.Len() > MaxArgsLength {
			return "", ErrArgumentsTooLong
		}
	}
	return sb.String(), nil
}
